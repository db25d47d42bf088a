package importer

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/platefinder/backend/internal/service"
	"github.com/platefinder/backend/internal/types"
)

const (
	// Imported ids live far above anything the provider assigns, so the
	// two populations can never collide.
	DefaultIDOffset = 400_000_000

	DefaultServings        = 4
	DefaultImagePublicPath = "/recipe-images/custom"
	DefaultImageExtension  = ".jpg"
)

// Options configure a bulk CSV import run.
type Options struct {
	CSVPath         string
	ImageSourceDir  string
	ImageOutputDir  string
	ImagePublicPath string
	ImageExtension  string
	IDOffset        int64
	DefaultServings int
	DryRun          bool
	Force           bool
}

// RecipeSaver persists canonical recipes; *service.RecipeService implements it.
type RecipeSaver interface {
	SaveRecipe(ctx context.Context, recipe *types.Recipe) *types.Recipe
}

// RangeCounter counts cached recipes in an id range, backing the
// idempotency guard.
type RangeCounter interface {
	CountBySpoonacularIDRange(ctx context.Context, lower, upper int64) (int64, error)
}

// Importer loads a recipe dataset CSV into the cache with deterministic
// ids, heuristic time/price estimates and optional image publication.
type Importer struct {
	saver   RecipeSaver
	counter RangeCounter
	images  *service.ImageService
	opts    Options
}

func New(saver RecipeSaver, counter RangeCounter, images *service.ImageService, opts Options) *Importer {
	if opts.IDOffset == 0 {
		opts.IDOffset = DefaultIDOffset
	}
	if opts.DefaultServings == 0 {
		opts.DefaultServings = DefaultServings
	}
	if opts.ImagePublicPath == "" {
		opts.ImagePublicPath = DefaultImagePublicPath
	}
	if opts.ImageExtension == "" {
		opts.ImageExtension = DefaultImageExtension
	}
	opts.ImagePublicPath = strings.ReplaceAll(opts.ImagePublicPath, `\`, "/")
	if !strings.HasPrefix(opts.ImagePublicPath, "/") {
		opts.ImagePublicPath = "/" + opts.ImagePublicPath
	}
	return &Importer{saver: saver, counter: counter, images: images, opts: opts}
}

// ComputeStableID derives the deterministic external id for a CSV row.
// Ids stay within 32-bit range for realistic offsets and row counts.
func ComputeStableID(rowIndex int, offset int64) int64 {
	return offset + int64(rowIndex) + 1
}

// Run executes the import. Unless forced, the run is skipped entirely when
// any recipe already exists in the computed id range. Dry runs report the
// ids and titles that would be written without persisting anything.
func (imp *Importer) Run(ctx context.Context) error {
	rows, err := ReadCSVFile(imp.opts.CSVPath)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		log.Println("No data rows detected in CSV.")
		return nil
	}

	lowerBound := ComputeStableID(0, imp.opts.IDOffset)
	upperBound := ComputeStableID(len(rows)-1, imp.opts.IDOffset)

	if !imp.opts.DryRun && !imp.opts.Force {
		count, err := imp.counter.CountBySpoonacularIDRange(ctx, lowerBound, upperBound)
		if err != nil {
			log.Printf("Warning: unable to check for existing custom recipes: %v", err)
		} else if count > 0 {
			log.Printf("Detected existing recipes in the custom ID range (%d-%d). Assuming the import already ran; exiting. Use --force to re-import.", lowerBound, upperBound)
			return nil
		}
	}

	log.Printf("Processing %d recipe rows...", len(rows))
	imported := 0
	for i, row := range rows {
		recipe := imp.BuildRecipePayload(ctx, row, i)
		if recipe == nil {
			log.Printf("Skipping row %d: missing title.", i+1)
			continue
		}

		if imp.opts.DryRun {
			log.Printf("[dry-run] %s -> would assign id %d", recipe.Title, recipe.ID)
			continue
		}

		imp.saver.SaveRecipe(ctx, recipe)
		imported++
		if imported%25 == 0 {
			log.Printf("Imported %d/%d recipes...", imported, len(rows))
		}
	}

	if imp.opts.DryRun {
		log.Println("Dry run complete. No recipes saved.")
	} else {
		log.Printf("Import complete. Saved %d recipe(s).", imported)
	}
	return nil
}

// BuildRecipePayload converts one CSV row into a canonical recipe. Returns
// nil when the row has no title. All dietary flags are explicitly false:
// the dataset carries no diet metadata, and leaving them unset would let
// imported recipes pass intolerance filters they should not.
func (imp *Importer) BuildRecipePayload(ctx context.Context, row Row, rowIndex int) *types.Recipe {
	title := strings.TrimSpace(row.Get("Title"))
	if title == "" {
		return nil
	}

	instructions := ParseInstructions(row.Get("Instructions", "Directions"))
	ingredientList := ParseListColumn(row.Get("Ingredients", "ingredients"))
	cleanedList := ParseListColumn(row.Get("Cleaned_Ingredients", "cleaned_ingredients"))
	mergedIngredients := ingredientList
	if len(mergedIngredients) == 0 {
		mergedIngredients = cleanedList
	}

	imageURL := imp.publishImage(ctx, row.Get("Image_Name", "image_name"))
	recipeID := ComputeStableID(rowIndex, imp.opts.IDOffset)

	servings := imp.estimateServings(row)
	readyInMinutes := service.EstimateReadyMinutes(len(instructions), len(mergedIngredients))
	pricePerServing := service.EstimatePricePerServing(len(mergedIngredients), len(instructions))

	extendedIngredients := make([]*types.Ingredient, 0, len(mergedIngredients))
	for idx, text := range mergedIngredients {
		name := text
		if idx < len(cleanedList) && cleanedList[idx] != "" {
			name = cleanedList[idx]
		}
		extendedIngredients = append(extendedIngredients, &types.Ingredient{
			ID:             types.IngredientID(fmt.Sprintf("%d-%d", recipeID, idx)),
			Original:       text,
			OriginalString: text,
			Name:           name,
		})
	}

	service.ApplyCostEstimates(extendedIngredients, pricePerServing, servings)

	var analyzedInstructions []types.InstructionBlock
	if len(instructions) > 0 {
		steps := make([]types.InstructionStep, 0, len(instructions))
		for idx, step := range instructions {
			steps = append(steps, types.InstructionStep{Number: idx + 1, Step: step})
		}
		analyzedInstructions = []types.InstructionBlock{{Name: "", Steps: steps}}
	}

	summary := strings.TrimSpace(row.Get("Summary"))
	if summary == "" {
		summary = title
	}

	price := pricePerServing
	return &types.Recipe{
		ID:                   recipeID,
		Title:                title,
		Summary:              summary,
		Image:                imageURL,
		Servings:             servings,
		ReadyInMinutes:       readyInMinutes,
		PricePerServing:      &price,
		ExtendedIngredients:  extendedIngredients,
		Instructions:         strings.Join(instructions, "\n\n"),
		AnalyzedInstructions: analyzedInstructions,
		Diets:                []string{},
		DishTypes:            []string{},
		Vegetarian:           boolPtr(false),
		Vegan:                boolPtr(false),
		GlutenFree:           boolPtr(false),
		DairyFree:            boolPtr(false),
		VeryHealthy:          boolPtr(false),
		Cheap:                boolPtr(false),
		RawSource:            "custom_csv",
		DatasetMeta: map[string]any{
			"source":             "custom_csv",
			"originalRow":        row,
			"cleanedIngredients": cleanedList,
			"heuristics": map[string]any{
				"servings":        servings,
				"readyInMinutes":  readyInMinutes,
				"pricePerServing": pricePerServing,
			},
		},
	}
}

func (imp *Importer) estimateServings(row Row) int {
	raw := strings.TrimSpace(row.Get("Servings", "servings"))
	if raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			return int(math.Round(parsed))
		}
	}
	return imp.opts.DefaultServings
}

var fileExtensionPattern = regexp.MustCompile(`\.[a-zA-Z0-9]+$`)

// publishImage makes a dataset image available at a public URL: uploaded to
// S3 when configured, otherwise copied into the static image directory.
// Returns "" when there is no image or publication fails; the import still
// proceeds without one.
func (imp *Importer) publishImage(ctx context.Context, imageName string) string {
	if imageName == "" {
		return ""
	}

	ext := imp.opts.ImageExtension
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	filename := imageName
	if !fileExtensionPattern.MatchString(filename) {
		filename += ext
	}

	if imp.opts.ImageSourceDir == "" {
		return path.Join(imp.opts.ImagePublicPath, filename)
	}

	sourcePath := filepath.Join(imp.opts.ImageSourceDir, filename)
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		log.Printf("Warning: unable to read image %s: %v", filename, err)
		return ""
	}

	if imp.images != nil && imp.images.Enabled() {
		url, err := imp.images.UploadRecipeImage(ctx, data, "recipe-images/custom/"+filename, contentTypeForExtension(filename))
		if err != nil {
			log.Printf("Warning: unable to upload image %s: %v", filename, err)
			return ""
		}
		return url
	}

	if err := os.MkdirAll(imp.opts.ImageOutputDir, 0o755); err != nil {
		log.Printf("Warning: unable to create image directory: %v", err)
		return ""
	}
	destinationPath := filepath.Join(imp.opts.ImageOutputDir, filename)
	if err := os.WriteFile(destinationPath, data, 0o644); err != nil {
		log.Printf("Warning: unable to copy image %s: %v", filename, err)
		return ""
	}

	return path.Join(imp.opts.ImagePublicPath, filename)
}

func contentTypeForExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func boolPtr(value bool) *bool {
	return &value
}
