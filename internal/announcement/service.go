package announcement

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/Hurtuk18/server-announcements-be/internal/config"
	"github.com/Hurtuk18/server-announcements-be/internal/pkg/apperror"
	"github.com/Hurtuk18/server-announcements-be/internal/pkg/datefmt"
)

type CreateRequest struct {
	Title           string
	Content         string
	PublicationDate string
	Categories      []string
}

// UpdateRequest carries a partial update. Nil pointers leave the field
// unchanged; a nil Categories slice keeps the current association set,
// while a non-nil one replaces it entirely.
type UpdateRequest struct {
	Title      *string
	Content    *string
	Categories []string
}

type Service interface {
	List(ctx context.Context, filter Filter) ([]*Announcement, int, error)
	GetByID(ctx context.Context, id string) (*Announcement, error)
	Create(ctx context.Context, req CreateRequest) (*Announcement, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Announcement, error)
	Delete(ctx context.Context, id string) (*Announcement, error)
	Definitions() (any, error)
}

type service struct {
	repo Repository
	cfg  *config.Config
}

func NewService(repo Repository, cfg *config.Config) Service {
	return &service{repo: repo, cfg: cfg}
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Announcement, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) GetByID(ctx context.Context, id string) (*Announcement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err == ErrNotFound {
		return nil, apperror.NotFound(fmt.Sprintf("Announcement %s not found", id))
	}
	return a, err
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Announcement, error) {
	publicationDate, err := datefmt.Parse(req.PublicationDate)
	if err != nil {
		return nil, apperror.Validation(
			fmt.Sprintf("Invalid publicationDate format, expected MM/DD/YYYY HH:mm, got: %s", req.PublicationDate))
	}

	categories, err := s.resolveCategories(ctx, req.Categories)
	if err != nil {
		return nil, err
	}

	a := &Announcement{
		Title:           req.Title,
		Content:         req.Content,
		PublicationDate: publicationDate,
		Categories:      categories,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	log.Info().Str("id", a.ID).Msg("announcement created")
	return a, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Announcement, error) {
	// Reuses the not-found check.
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Content != nil {
		a.Content = *req.Content
	}

	replaceCategories := req.Categories != nil
	if replaceCategories {
		categories, err := s.resolveCategories(ctx, req.Categories)
		if err != nil {
			return nil, err
		}
		a.Categories = categories
	}

	if err := s.repo.Update(ctx, a, replaceCategories); err != nil {
		if err == ErrNotFound {
			return nil, apperror.NotFound(fmt.Sprintf("Announcement %s not found", id))
		}
		return nil, err
	}

	log.Info().Str("id", a.ID).Msg("announcement updated")
	return a, nil
}

func (s *service) Delete(ctx context.Context, id string) (*Announcement, error) {
	// Fetch the full representation before deleting; it is returned to
	// the caller as the entity's prior state.
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info().Str("id", id).Msg("deleting announcement")
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == ErrNotFound {
			return nil, apperror.NotFound(fmt.Sprintf("Announcement %s not found", id))
		}
		return nil, err
	}
	return a, nil
}

// Definitions reads the definitions YAML at call time and returns its
// contents verbatim. The file is intentionally not cached.
func (s *service) Definitions() (any, error) {
	path := s.cfg.Paths.DefinitionsYaml
	if path == "" {
		return nil, fmt.Errorf("definitions path is not configured")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definitions file not found at path: %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse definitions file %s: %w", path, err)
	}
	return doc, nil
}

// resolveCategories de-duplicates the requested codes and resolves them
// against the seeded category set. Unknown codes fail the whole
// operation; nothing is persisted partially.
func (s *service) resolveCategories(ctx context.Context, codes []string) ([]Category, error) {
	distinct := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		distinct = append(distinct, code)
	}

	if len(distinct) == 0 {
		return nil, apperror.Validation("categories must contain at least one value")
	}

	existing, err := s.repo.FindCategoriesByCodes(ctx, distinct)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		known[c.Code] = struct{}{}
	}

	var missing []string
	for _, code := range distinct {
		if _, ok := known[code]; !ok {
			missing = append(missing, code)
		}
	}
	if len(missing) > 0 {
		return nil, apperror.Validation("Unknown categories: " + strings.Join(missing, ", "))
	}

	return existing, nil
}
