package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/platefinder/backend/config"
	"github.com/platefinder/backend/internal/database"
	"github.com/platefinder/backend/internal/importer"
	"github.com/platefinder/backend/internal/repository"
	"github.com/platefinder/backend/internal/service"
	"github.com/platefinder/backend/internal/spoonacular"
)

// Flags fall back to CUSTOM_RECIPE_* environment variables so the import
// can run as a one-off job without a command line.
func main() {
	csvPath := flag.String("csv", os.Getenv("CUSTOM_RECIPE_CSV"), "path to the recipe CSV file")
	imageSource := flag.String("image-source", os.Getenv("CUSTOM_RECIPE_IMAGE_SOURCE"), "directory containing the dataset images")
	imageDest := flag.String("image-dest", envOr("CUSTOM_RECIPE_IMAGE_DEST", "public/recipe-images/custom"), "directory to copy images into")
	imageURL := flag.String("image-url", envOr("CUSTOM_RECIPE_IMAGE_URL", importer.DefaultImagePublicPath), "public URL prefix for copied images")
	imageExt := flag.String("image-ext", envOr("CUSTOM_RECIPE_IMAGE_EXT", importer.DefaultImageExtension), "extension appended to bare image names")
	idOffset := flag.Int64("id-offset", envInt64("CUSTOM_RECIPE_ID_OFFSET", importer.DefaultIDOffset), "base offset for generated recipe ids")
	defaultServings := flag.Int("default-servings", int(envInt64("CUSTOM_RECIPE_DEFAULT_SERVINGS", importer.DefaultServings)), "servings assumed when a row has none")
	dryRun := flag.Bool("dry-run", os.Getenv("CUSTOM_RECIPE_DRY_RUN") == "true", "report intended ids/titles without persisting")
	force := flag.Bool("force", os.Getenv("CUSTOM_RECIPE_FORCE") == "true", "re-import even if the id range is already populated")
	flag.Parse()

	if *csvPath == "" && flag.NArg() > 0 {
		*csvPath = flag.Arg(0)
	}
	if *csvPath == "" {
		log.Fatal("Missing required CSV path. Pass --csv <path-to-file> or set CUSTOM_RECIPE_CSV.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.Printf("S3 unavailable, images will be copied locally: %v", err)
	}

	recipeRepo := repository.NewRecipeRepository(db)
	provider := spoonacular.NewClient(cfg.SpoonacularAPIKey, cfg.SpoonacularBaseURL, nil)
	recipeService := service.NewRecipeService(recipeRepo, provider)
	imageService := service.NewImageService(s3Config)

	imp := importer.New(recipeService, recipeRepo, imageService, importer.Options{
		CSVPath:         *csvPath,
		ImageSourceDir:  *imageSource,
		ImageOutputDir:  *imageDest,
		ImagePublicPath: *imageURL,
		ImageExtension:  *imageExt,
		IDOffset:        *idOffset,
		DefaultServings: *defaultServings,
		DryRun:          *dryRun,
		Force:           *force,
	})

	if err := imp.Run(ctx); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
