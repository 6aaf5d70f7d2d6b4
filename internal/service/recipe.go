package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recetario/backend/internal/models"
	"github.com/recetario/backend/internal/types"
)

// RecipeService handles recipe CRUD, comments and filtered listings.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// ListQuery carries the untrusted query parameters of a recipe listing.
type ListQuery struct {
	Name              string
	Classification    string
	Ingredient        string
	ExcludeIngredient string
	CreatedBy         string
	SortBy            string
	SortOrder         string
	SavedByUser       bool
}

// sortColumns is the allow-list of sortable fields. Anything else is
// ignored, not an error.
var sortColumns = map[string]string{
	"name":       "name",
	"uploadDate": "upload_date",
	"username":   "owner_username",
}

// Create persists a new recipe owned by ownerID. Recipes always start
// pending (status=false) until an admin approves them.
func (s *RecipeService) Create(ctx context.Context, ownerID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, "id = ?", ownerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	recipe := &models.Recipe{
		Name:            req.Name,
		Classification:  req.Classification,
		Description:     req.Description,
		Portions:        req.Portions,
		Status:          false,
		UploadDate:      time.Now(),
		UserID:          owner.ID,
		OwnerUsername:   owner.Username,
		Ingredients:     toIngredients(req.Ingredients),
		Steps:           toSteps(req.Steps),
		FrontpagePhotos: toPhotos(req.FrontpagePhotos),
		Comments:        models.CommentList{},
	}

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// Get retrieves a recipe by id, gated by the visibility policy. The
// returned aggregate has its comments filtered to approved ones for
// every viewer, owner and admin included.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	viewer, err := resolveViewer(ctx, s.db, viewerID)
	if err != nil {
		return nil, err
	}
	if !CanViewRecipe(&recipe, viewer) {
		return nil, ErrForbidden
	}

	recipe.Comments = recipe.ApprovedComments()
	return &recipe, nil
}

// Update applies the owner-editable fields and re-persists the
// aggregate. Only the owner may update; moderation state and rating are
// never touched here.
func (s *RecipeService) Update(ctx context.Context, id, ownerID uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.UserID != ownerID {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		recipe.Name = *req.Name
	}
	if req.Classification != nil {
		recipe.Classification = *req.Classification
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Portions != nil {
		recipe.Portions = *req.Portions
	}
	if req.Ingredients != nil {
		recipe.Ingredients = toIngredients(req.Ingredients)
	}
	if req.Steps != nil {
		recipe.Steps = toSteps(req.Steps)
	}
	if req.FrontpagePhotos != nil {
		recipe.FrontpagePhotos = toPhotos(req.FrontpagePhotos)
	}

	if err := s.db.WithContext(ctx).Save(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Delete removes a recipe. Only the owner may delete through this path;
// admins reject via the moderation service instead.
func (s *RecipeService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrRecipeNotFound
		}
		return err
	}
	if recipe.UserID != ownerID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id).Error
}

// AddComment appends an unapproved comment to the recipe aggregate. The
// rating, if any, does not count toward the aggregate until an admin
// approves the comment.
func (s *RecipeService) AddComment(ctx context.Context, recipeID, authorID uuid.UUID, req *types.AddCommentRequest) (*models.Comment, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	comment := models.Comment{
		ID:        uuid.New(),
		UserID:    author.ID,
		Username:  author.Username,
		Text:      req.Text,
		Rating:    req.Rating,
		Approved:  false,
		CreatedAt: time.Now(),
	}
	recipe.Comments = append(recipe.Comments, comment)

	if err := s.db.WithContext(ctx).Save(&recipe).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// List executes the compound filter+sort over the recipe repository,
// restricted to what the viewer is allowed to see and annotated with
// IsSaved when the viewer is known.
func (s *RecipeService) List(ctx context.Context, q ListQuery, viewerID *uuid.UUID) ([]models.Recipe, error) {
	viewer, err := resolveViewer(ctx, s.db, viewerID)
	if err != nil {
		return nil, err
	}
	if q.SavedByUser && viewer == nil {
		return nil, ErrForbidden
	}

	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	// Visibility: pending recipes only for their owner; admins see all.
	if viewer == nil {
		query = query.Where("status = ?", true)
	} else if !viewer.IsAdmin {
		query = query.Where("status = ? OR user_id = ?", true, viewer.ID)
	}

	if q.Name != "" {
		like := "%" + escapeLike(strings.ToLower(q.Name)) + "%"
		query = query.Where(
			fmt.Sprintf(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR %s`, s.ingredientNameLike()),
			like, like, like,
		)
	}

	if q.Classification != "" {
		values := splitTrimLower(q.Classification)
		if len(values) > 0 {
			query = query.Where("LOWER(classification) IN ?", values)
		}
	}

	if q.Ingredient != "" {
		names := splitTrimLower(q.Ingredient)
		if len(names) > 0 {
			conds := make([]string, len(names))
			args := make([]interface{}, len(names))
			for i, n := range names {
				conds[i] = s.ingredientNameEq()
				args[i] = n
			}
			query = query.Where(strings.Join(conds, " OR "), args...)
		}
	}

	if q.ExcludeIngredient != "" {
		for _, n := range splitTrimLower(q.ExcludeIngredient) {
			query = query.Where("NOT "+s.ingredientNameEq(), n)
		}
	}

	if q.CreatedBy != "" {
		usernames := splitTrim(q.CreatedBy)
		var users []models.User
		if err := s.db.WithContext(ctx).Where("username IN ?", usernames).Find(&users).Error; err != nil {
			return nil, err
		}
		if len(users) == 0 {
			return nil, ErrUserNotFound
		}
		ids := make([]uuid.UUID, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		query = query.Where("user_id IN ?", ids)
	}

	if q.SavedByUser {
		saved := s.db.WithContext(ctx).Model(&models.SavedRecipe{}).Select("recipe_id").Where("user_id = ?", viewer.ID)
		query = query.Where("id IN (?)", saved)
	}

	if col, ok := sortColumns[q.SortBy]; ok {
		dir := "asc"
		if q.SortOrder == "desc" {
			dir = "desc"
		}
		query = query.Order(col + " " + dir)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	if err := s.annotate(ctx, recipes, viewer); err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListByUsername returns a user's recipes. Pending ones are included
// only when the viewer is that user or an admin.
func (s *RecipeService) ListByUsername(ctx context.Context, username string, viewerID *uuid.UUID) ([]models.Recipe, error) {
	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	viewer, err := resolveViewer(ctx, s.db, viewerID)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Where("user_id = ?", owner.ID)
	if viewer == nil || (!viewer.IsAdmin && viewer.ID != owner.ID) {
		query = query.Where("status = ?", true)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}

	if err := s.annotate(ctx, recipes, viewer); err != nil {
		return nil, err
	}
	return recipes, nil
}

// annotate sets IsSaved relative to the viewer's saved set and filters
// embedded comments down to what the viewer may see.
func (s *RecipeService) annotate(ctx context.Context, recipes []models.Recipe, viewer *Viewer) error {
	var savedSet map[uuid.UUID]bool
	if viewer != nil {
		var saved []models.SavedRecipe
		if err := s.db.WithContext(ctx).Where("user_id = ?", viewer.ID).Find(&saved).Error; err != nil {
			return err
		}
		savedSet = make(map[uuid.UUID]bool, len(saved))
		for _, sr := range saved {
			savedSet[sr.RecipeID] = true
		}
	}

	for i := range recipes {
		r := &recipes[i]
		if savedSet != nil {
			isSaved := savedSet[r.ID]
			r.IsSaved = &isSaved
		}
		owner := viewer != nil && (viewer.IsAdmin || viewer.ID == r.UserID)
		if !owner {
			r.Comments = r.ApprovedComments()
		}
	}
	return nil
}

// ingredientNameEq returns a predicate with one placeholder matching
// recipes that contain an ingredient whose lowercased name equals the
// argument. Postgres unnests the jsonb array; sqlite goes through
// json_each, since jsonb::text renders canonical spacing that plain
// LIKE patterns over the stored text would miss.
func (s *RecipeService) ingredientNameEq() string {
	if s.db.Dialector.Name() == "postgres" {
		return "EXISTS (SELECT 1 FROM jsonb_array_elements(ingredients) AS ing WHERE LOWER(ing->>'name') = ?)"
	}
	return "EXISTS (SELECT 1 FROM json_each(ingredients) WHERE LOWER(json_extract(value, '$.name')) = ?)"
}

// ingredientNameLike is the substring variant of ingredientNameEq,
// scoped to the name value only so unit strings and JSON keys never
// match.
func (s *RecipeService) ingredientNameLike() string {
	if s.db.Dialector.Name() == "postgres" {
		return `EXISTS (SELECT 1 FROM jsonb_array_elements(ingredients) AS ing WHERE LOWER(ing->>'name') LIKE ? ESCAPE '\')`
	}
	return `EXISTS (SELECT 1 FROM json_each(ingredients) WHERE LOWER(json_extract(value, '$.name')) LIKE ? ESCAPE '\')`
}

// escapeLike neutralizes LIKE wildcards in user-supplied filter text;
// every LIKE built here declares ESCAPE '\'.
func escapeLike(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, "%", `\%`)
	return strings.ReplaceAll(v, "_", `\_`)
}

func splitTrim(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func splitTrimLower(v string) []string {
	parts := splitTrim(v)
	for i := range parts {
		parts[i] = strings.ToLower(parts[i])
	}
	return parts
}

func toIngredients(payload []types.IngredientPayload) models.IngredientList {
	out := make(models.IngredientList, len(payload))
	for i, p := range payload {
		out[i] = models.Ingredient{Name: p.Name, Amount: p.Amount, Unit: p.Unit}
	}
	return out
}

func toSteps(payload []types.StepPayload) models.StepList {
	out := make(models.StepList, len(payload))
	for i, p := range payload {
		out[i] = models.Step{Description: p.Description, Photos: toPhotos(p.Photos)}
	}
	return out
}

func toPhotos(payload []types.PhotoPayload) models.PhotoList {
	out := make(models.PhotoList, len(payload))
	for i, p := range payload {
		out[i] = models.Photo{Data: p.Data, ContentType: p.ContentType}
	}
	return out
}
