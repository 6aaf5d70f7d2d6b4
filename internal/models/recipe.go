package models

import (
	"database/sql/driver"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Classifications is the fixed set of recipe categories.
var Classifications = []string{
	"Desayuno", "Almuerzo", "Cena", "Merienda", "Snack",
	"Vegano", "Vegetariano", "Sin TACC", "Otro",
}

// Units is the fixed set of ingredient measurement units.
var Units = []string{
	"g", "kg", "unidades", "tazas", "ml",
	"cucharadas", "cucharaditas", "pizca", "litros", "cc",
}

// MaxPhotos limits how many photos a step or the front page can carry.
const MaxPhotos = 3

// Photo is an image owned by its parent recipe or step. The raw bytes
// round-trip as base64 through encoding/json at the API boundary.
type Photo struct {
	Data        []byte `json:"data"`
	ContentType string `json:"content_type"`
}

type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type Step struct {
	Description string  `json:"description"`
	Photos      []Photo `json:"photos,omitempty"`
}

// Comment is embedded in its recipe and immutable once created except
// for the approved flag. Rating is optional; only comments carrying one
// contribute to the recipe's aggregate rating.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Rating    *int      `json:"rating,omitempty"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

// jsonbScan decodes a JSONB column value produced by either postgres
// ([]byte) or sqlite (string) into dest.
func jsonbScan(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, dest)
}

// IngredientList is stored as a JSONB column on the recipe row.
type IngredientList []Ingredient

func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *IngredientList) Scan(value interface{}) error {
	*l = IngredientList{}
	return jsonbScan(value, l)
}

// StepList is stored as a JSONB column on the recipe row.
type StepList []Step

func (l StepList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StepList) Scan(value interface{}) error {
	*l = StepList{}
	return jsonbScan(value, l)
}

// PhotoList is stored as a JSONB column on the recipe row.
type PhotoList []Photo

func (l PhotoList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *PhotoList) Scan(value interface{}) error {
	*l = PhotoList{}
	return jsonbScan(value, l)
}

// CommentList is stored as a JSONB column on the recipe row.
type CommentList []Comment

func (l CommentList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *CommentList) Scan(value interface{}) error {
	*l = CommentList{}
	return jsonbScan(value, l)
}

// Recipe is the aggregate root. Ingredients, steps, photos and comments
// are owned value objects persisted on the same row, so every child
// mutation is a single atomic save of the parent.
type Recipe struct {
	ID              uuid.UUID      `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	Name            string         `gorm:"size:30;not null" json:"name"`
	Classification  string         `gorm:"size:20;not null" json:"classification"`
	Description     string         `gorm:"size:200;not null" json:"description"`
	Portions        int            `gorm:"not null" json:"portions"`
	Status          bool           `gorm:"not null;default:false" json:"status"`
	Rating          float64        `gorm:"not null;default:0" json:"rating"`
	UploadDate      time.Time      `json:"upload_date"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	OwnerUsername   string         `gorm:"size:50;not null" json:"username"`
	Ingredients     IngredientList `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps           StepList       `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	FrontpagePhotos PhotoList      `gorm:"type:jsonb;not null;default:'[]'" json:"frontpage_photos"`
	Comments        CommentList    `gorm:"type:jsonb;not null;default:'[]'" json:"comments"`

	// IsSaved annotates list results relative to the requesting user's
	// saved set. Omitted when the requester is unknown.
	IsSaved *bool `gorm:"-" json:"is_saved,omitempty"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.UploadDate.IsZero() {
		r.UploadDate = time.Now()
	}
	return nil
}

// FindComment returns the embedded comment with the given id, or nil.
func (r *Recipe) FindComment(id uuid.UUID) *Comment {
	for i := range r.Comments {
		if r.Comments[i].ID == id {
			return &r.Comments[i]
		}
	}
	return nil
}

// RemoveComment deletes the comment with the given id from the
// aggregate. Reports whether a comment was removed.
func (r *Recipe) RemoveComment(id uuid.UUID) bool {
	for i := range r.Comments {
		if r.Comments[i].ID == id {
			r.Comments = append(r.Comments[:i], r.Comments[i+1:]...)
			return true
		}
	}
	return false
}

// RecomputeRating recalculates the cached aggregate rating from the
// approved comments that carry a rating: the mean rounded to one
// decimal, or 0 when no such comment exists. Callers must invoke this
// before saving whenever the approved comment set changes.
func (r *Recipe) RecomputeRating() {
	var sum, n int
	for i := range r.Comments {
		c := &r.Comments[i]
		if c.Approved && c.Rating != nil {
			sum += *c.Rating
			n++
		}
	}
	if n == 0 {
		r.Rating = 0
		return
	}
	r.Rating = math.Round(float64(sum)/float64(n)*10) / 10
}

// ApprovedComments returns only the comments visible to regular
// viewers.
func (r *Recipe) ApprovedComments() CommentList {
	out := make(CommentList, 0, len(r.Comments))
	for _, c := range r.Comments {
		if c.Approved {
			out = append(out, c)
		}
	}
	return out
}

// HasUnapprovedComments reports whether any comment is awaiting
// moderation.
func (r *Recipe) HasUnapprovedComments() bool {
	for i := range r.Comments {
		if !r.Comments[i].Approved {
			return true
		}
	}
	return false
}

// ValidClassification reports whether c is one of the fixed categories,
// ignoring case.
func ValidClassification(c string) bool {
	for _, v := range Classifications {
		if strings.EqualFold(v, c) {
			return true
		}
	}
	return false
}

// ValidUnit reports whether u is one of the fixed measurement units.
func ValidUnit(u string) bool {
	for _, v := range Units {
		if v == u {
			return true
		}
	}
	return false
}
