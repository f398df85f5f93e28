package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"expertise-marketplace/internal/domain/expert"
	"expertise-marketplace/internal/domain/matching"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CreateExpertInput struct {
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"required"`
	Title      string   `json:"title" validate:"required"`
	Department string   `json:"department" validate:"required"`
	Affiliate  string   `json:"affiliate" validate:"required"`
	Skills     []string `json:"skills" validate:"min=1"`
	Bio        string   `json:"bio"`
}

type SubmitNominationInput struct {
	Experts     []expert.NominatedExpertRef `json:"experts"`
	SubmittedBy string                      `json:"submittedBy"`
	Notes       string                      `json:"notes"`
}

type MatchParams struct {
	Category string
	Keywords []string
	Query    string
}

type MatchResult struct {
	Selection matching.Selection
	Category  *matching.Category
	Matches   []matching.Match
}

type DirectoryUsecase interface {
	ListExperts(ctx context.Context) ([]expert.Expert, error)
	GetExpert(ctx context.Context, id string) (expert.Expert, error)
	CreateExpert(ctx context.Context, in CreateExpertInput) (expert.Expert, error)
	SearchExperts(ctx context.Context, query string) ([]expert.Expert, error)
	MatchExperts(ctx context.Context, params MatchParams) (MatchResult, error)
	ListCategories() []matching.Category
	SubmitNomination(ctx context.Context, in SubmitNominationInput) (expert.Nomination, error)
}

type IDGenerator interface {
	NewExpertID() string
	NewNominationID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewExpertID() string     { return "expert-" + uuid.NewString() }
func (UUIDGenerator) NewNominationID() string { return "nom-" + uuid.NewString() }

type Notifier interface {
	Notify(ctx context.Context, evt expert.Event)
}

type DirectoryMetrics interface {
	ExpertCreated()
	NominationSubmitted(experts int)
	CacheLookup(result string)
}

type DirectoryDeps struct {
	Experts     expert.Repository
	Nominations expert.NominationRepository
	IDs         IDGenerator
	Cache       ListingCache
	Notifier    Notifier
	Metrics     DirectoryMetrics
	Logger      *log.Logger
	Now         func() time.Time
}

type Directory struct {
	experts     expert.Repository
	nominations expert.NominationRepository
	ids         IDGenerator
	cache       ListingCache
	notifier    Notifier
	metrics     DirectoryMetrics
	logger      *log.Logger
	now         func() time.Time
	validate    *validator.Validate
}

func NewDirectoryUsecase(deps DirectoryDeps) *Directory {
	d := &Directory{
		experts:     deps.Experts,
		nominations: deps.Nominations,
		ids:         deps.IDs,
		cache:       deps.Cache,
		notifier:    deps.Notifier,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		now:         deps.Now,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
	if d.ids == nil {
		d.ids = UUIDGenerator{}
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

func (u *Directory) ListExperts(ctx context.Context) ([]expert.Expert, error) {
	gen, cacheable := u.listingsGeneration(ctx)
	var cached []expert.Expert
	if cacheable && u.cacheGet(ctx, listCacheKey(gen), &cached) {
		return cached, nil
	}

	experts, err := u.experts.List(ctx)
	if err != nil {
		return nil, u.storeError("list experts", err)
	}
	if cacheable {
		u.cacheSet(ctx, listCacheKey(gen), experts)
	}
	return experts, nil
}

func (u *Directory) GetExpert(ctx context.Context, id string) (expert.Expert, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return expert.Expert{}, ErrNotFound
	}
	e, err := u.experts.FindByID(ctx, id)
	if errors.Is(err, expert.ErrNotFound) {
		return expert.Expert{}, ErrNotFound
	}
	if err != nil {
		return expert.Expert{}, u.storeError("get expert", err)
	}
	return e, nil
}

// CreateExpert adds an expert after checking that the email is unused. The
// check and the insert are separate store calls, so two concurrent creates
// with the same email can both succeed.
func (u *Directory) CreateExpert(ctx context.Context, in CreateExpertInput) (expert.Expert, error) {
	in = normalizeCreateInput(in)
	if err := u.validateCreateInput(in); err != nil {
		return expert.Expert{}, err
	}

	_, err := u.experts.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return expert.Expert{}, ErrConflict
	case !errors.Is(err, expert.ErrNotFound):
		return expert.Expert{}, u.storeError("check email", err)
	}

	bio := in.Bio
	if bio == "" {
		bio = expert.DefaultBio(in.Name, in.Title, in.Department, in.Affiliate)
	}
	now := u.now().UTC()
	e := expert.Expert{
		ID:         u.ids.NewExpertID(),
		Name:       in.Name,
		Title:      in.Title,
		Department: in.Department,
		Affiliate:  in.Affiliate,
		Skills:     in.Skills,
		Email:      in.Email,
		Bio:        bio,
		CreatedAt:  now,
		Status:     expert.StatusActive,
	}

	if err := u.experts.Insert(ctx, e); err != nil {
		return expert.Expert{}, u.storeError("insert expert", err)
	}
	if u.logger != nil {
		u.logger.Printf("[Directory] expert added | id=%s name=%q", e.ID, e.Name)
	}

	u.invalidateListings(ctx)
	if u.metrics != nil {
		u.metrics.ExpertCreated()
	}
	if u.notifier != nil {
		u.notifier.Notify(ctx, expert.ExpertCreated(e, now))
	}
	return e, nil
}

func (u *Directory) SearchExperts(ctx context.Context, query string) ([]expert.Expert, error) {
	if strings.TrimSpace(query) == "" {
		return nil, invalid(msgMissingQuery)
	}

	gen, cacheable := u.listingsGeneration(ctx)
	key := searchCacheKey(gen, query)
	var cached []expert.Expert
	if cacheable && u.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	experts, err := u.experts.Search(ctx, query)
	if err != nil {
		return nil, u.storeError("search experts", err)
	}
	if cacheable {
		u.cacheSet(ctx, key, experts)
	}
	return experts, nil
}

func (u *Directory) MatchExperts(ctx context.Context, params MatchParams) (MatchResult, error) {
	var (
		sel matching.Selection
		cat *matching.Category
	)
	if id := strings.TrimSpace(params.Category); id != "" {
		c, ok := matching.CategoryByID(id)
		if !ok {
			return MatchResult{}, invalid(msgUnknownCategory + id)
		}
		kws := params.Keywords
		if len(kws) == 0 {
			kws = c.Keywords
		}
		sel = matching.NewSelection(params.Query, c.ID, kws)
		if sel.Mode() == matching.ModeCategory {
			cat = &c
		}
	} else {
		sel = matching.NewSelection(params.Query, "", params.Keywords)
	}

	experts, err := u.ListExperts(ctx)
	if err != nil {
		return MatchResult{}, err
	}
	return MatchResult{Selection: sel, Category: cat, Matches: sel.Apply(experts)}, nil
}

func (u *Directory) ListCategories() []matching.Category {
	return matching.Categories()
}

func (u *Directory) SubmitNomination(ctx context.Context, in SubmitNominationInput) (expert.Nomination, error) {
	if len(in.Experts) == 0 {
		return expert.Nomination{}, invalid(msgNoNominees)
	}

	if err := u.nominations.EnsureCollection(ctx); err != nil {
		return expert.Nomination{}, u.storeError("ensure nominations collection", err)
	}

	submittedBy := strings.TrimSpace(in.SubmittedBy)
	if submittedBy == "" {
		submittedBy = expert.AnonymousSubmitter
	}
	now := u.now().UTC()
	n := expert.Nomination{
		ID:          u.ids.NewNominationID(),
		Experts:     append([]expert.NominatedExpertRef(nil), in.Experts...),
		SubmittedBy: submittedBy,
		Notes:       in.Notes,
		SubmittedAt: now,
		Status:      expert.NominationPending,
	}

	if err := u.nominations.Insert(ctx, n); err != nil {
		return expert.Nomination{}, u.storeError("insert nomination", err)
	}
	if u.logger != nil {
		u.logger.Printf("[Directory] nomination submitted | id=%s experts=%d", n.ID, len(n.Experts))
	}

	if u.metrics != nil {
		u.metrics.NominationSubmitted(len(n.Experts))
	}
	if u.notifier != nil {
		u.notifier.Notify(ctx, expert.NominationSubmitted(n, now))
	}
	return n, nil
}

func normalizeCreateInput(in CreateExpertInput) CreateExpertInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Title = strings.TrimSpace(in.Title)
	in.Department = strings.TrimSpace(in.Department)
	in.Affiliate = strings.TrimSpace(in.Affiliate)
	in.Bio = strings.TrimSpace(in.Bio)

	skills := make([]string, 0, len(in.Skills))
	for _, s := range in.Skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		skills = append(skills, s)
	}
	in.Skills = skills
	return in
}

// validateCreateInput reports missing required fields before missing skills,
// each with a single fixed message.
func (u *Directory) validateCreateInput(in CreateExpertInput) error {
	err := u.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	for _, fe := range verrs {
		if fe.StructField() != "Skills" {
			return invalid(msgMissingFields)
		}
	}
	return invalid(msgMissingSkills)
}

func (u *Directory) storeError(op string, err error) error {
	if u.logger != nil {
		u.logger.Printf("[Directory] store error | op=%s error=%v", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
