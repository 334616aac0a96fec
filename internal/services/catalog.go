package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/data/repos/catalog"
	"github.com/aneslog/aneslog-backend/internal/data/repos/users"
	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/apierr"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

// CatalogView is what the frontend needs to render the procedure picker:
// the shared catalog plus the team's own additions.
type CatalogView struct {
	Categories []domain.Category  `json:"categories"`
	Procedures []domain.Procedure `json:"procedures"`
}

type CreateProcedureInput struct {
	Name       string            `json:"name"`
	CategoryID uuid.UUID         `json:"category_id"`
	Complexity domain.Complexity `json:"complexity"`
}

type CatalogService interface {
	Catalog(ctx context.Context) (*CatalogView, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	CreateProcedure(ctx context.Context, in CreateProcedureInput) (*domain.Procedure, error)
	SetComplexity(ctx context.Context, procedureID uuid.UUID, complexity domain.Complexity) (*domain.Procedure, error)
}

type catalogService struct {
	db       *gorm.DB
	log      *logger.Logger
	catRepo  catalog.CategoryRepo
	procRepo catalog.ProcedureRepo
	userRepo users.UserRepo
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	catRepo catalog.CategoryRepo,
	procRepo catalog.ProcedureRepo,
	userRepo users.UserRepo,
) CatalogService {
	return &catalogService{
		db:       db,
		log:      log.With("service", "CatalogService"),
		catRepo:  catRepo,
		procRepo: procRepo,
		userRepo: userRepo,
	}
}

func (s *catalogService) Catalog(ctx context.Context) (*CatalogView, error) {
	actor, err := actorFromContext(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}
	teamID := uuid.Nil
	if actor.TeamID != nil {
		teamID = *actor.TeamID
	}

	categories, err := s.catRepo.ListForTeam(ctx, nil, teamID)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	procedures, err := s.procRepo.ListForTeam(ctx, nil, teamID)
	if err != nil {
		return nil, fmt.Errorf("error listing procedures: %w", err)
	}
	return &CatalogView{Categories: categories, Procedures: procedures}, nil
}

// CreateCategory adds a team-owned category. The shared catalog (team_id
// null) is seeded out of band and not writable through the API.
func (s *catalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	actor, err := requireSenior(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}
	teamID, err := teamOf(actor)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_name", fmt.Errorf("category name is required"))
	}
	row := &domain.Category{Name: name, TeamID: &teamID}
	created, err := s.catRepo.Create(ctx, nil, row)
	if err != nil {
		return nil, fmt.Errorf("error creating category: %w", err)
	}
	s.log.Info("category created", "name", name)
	return created, nil
}

func (s *catalogService) CreateProcedure(ctx context.Context, in CreateProcedureInput) (*domain.Procedure, error) {
	actor, err := requireSenior(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}
	teamID, err := teamOf(actor)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apierr.New(http.StatusBadRequest, "missing_name", fmt.Errorf("procedure name is required"))
	}
	if in.Complexity == "" {
		in.Complexity = domain.ComplexitySimple
	}
	if !in.Complexity.Valid() {
		return nil, apierr.New(http.StatusBadRequest, "invalid_complexity", fmt.Errorf("unknown complexity %q", in.Complexity))
	}
	cat, err := s.catRepo.GetByID(ctx, nil, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("error fetching category: %w", err)
	}
	if cat == nil {
		return nil, apierr.New(http.StatusNotFound, "category_not_found", fmt.Errorf("category %s not found", in.CategoryID))
	}

	row := &domain.Procedure{
		Name:       in.Name,
		CategoryID: in.CategoryID,
		TeamID:     &teamID,
		Complexity: in.Complexity,
	}
	created, err := s.procRepo.Create(ctx, nil, row)
	if err != nil {
		return nil, fmt.Errorf("error creating procedure: %w", err)
	}
	s.log.Info("procedure created", "name", in.Name, "complexity", string(in.Complexity))
	return created, nil
}

// SetComplexity switches the parameter set used for the procedure's CUSUM
// curves from the next computation onward.
func (s *catalogService) SetComplexity(ctx context.Context, procedureID uuid.UUID, complexity domain.Complexity) (*domain.Procedure, error) {
	if _, err := requireSenior(ctx, nil, s.userRepo); err != nil {
		return nil, err
	}
	if !complexity.Valid() {
		return nil, apierr.New(http.StatusBadRequest, "invalid_complexity", fmt.Errorf("unknown complexity %q", complexity))
	}
	proc, err := s.procRepo.GetByID(ctx, nil, procedureID)
	if err != nil {
		return nil, fmt.Errorf("error fetching procedure: %w", err)
	}
	if proc == nil {
		return nil, apierr.New(http.StatusNotFound, "procedure_not_found", fmt.Errorf("procedure %s not found", procedureID))
	}
	proc.Complexity = complexity
	if err := s.procRepo.Update(ctx, nil, proc); err != nil {
		return nil, fmt.Errorf("error updating procedure: %w", err)
	}
	s.log.Info("procedure complexity set", "procedure_id", procedureID, "complexity", string(complexity))
	return proc, nil
}
