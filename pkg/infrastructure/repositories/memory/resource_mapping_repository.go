package memory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vsinha/surgealloc/pkg/domain/entities"
	"github.com/vsinha/surgealloc/pkg/domain/repositories"
	"github.com/vsinha/surgealloc/pkg/domain/services"
)

// ResourceMappingRepository is an immutable in-memory knowledge base. It is
// populated once at construction and safe for concurrent readers.
type ResourceMappingRepository struct {
	profiles        map[entities.ConditionType]entities.ConditionProfile
	order           []entities.ConditionType
	generalFallback bool
	logger          *zap.Logger
}

// Option configures a ResourceMappingRepository
type Option func(*ResourceMappingRepository)

// WithGeneralFallback makes lookups for unmapped conditions return the
// GENERAL_SURGE profile instead of failing.
func WithGeneralFallback() Option {
	return func(r *ResourceMappingRepository) {
		r.generalFallback = true
	}
}

// WithLogger sets the logger used to report fallback substitutions
func WithLogger(logger *zap.Logger) Option {
	return func(r *ResourceMappingRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Verify interface compliance
var _ repositories.ResourceMappingRepository = (*ResourceMappingRepository)(nil)

// NewResourceMappingRepository validates and loads the given profiles
func NewResourceMappingRepository(profiles []entities.ConditionProfile, opts ...Option) (*ResourceMappingRepository, error) {
	r := &ResourceMappingRepository{
		profiles: make(map[entities.ConditionType]entities.ConditionProfile, len(profiles)),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := services.ValidateProfiles(profiles, r.generalFallback); err != nil {
		return nil, err
	}

	for _, p := range profiles {
		r.profiles[p.Condition] = copyProfile(p)
		r.order = append(r.order, p.Condition)
	}

	return r, nil
}

// NewDefaultResourceMappingRepository loads the built-in knowledge base
func NewDefaultResourceMappingRepository(opts ...Option) (*ResourceMappingRepository, error) {
	return NewResourceMappingRepository(DefaultProfiles(), opts...)
}

// Profile returns a copy of the profile for a condition
func (r *ResourceMappingRepository) Profile(condition entities.ConditionType) (*entities.ConditionProfile, error) {
	if p, ok := r.profiles[condition]; ok {
		cp := copyProfile(p)
		return &cp, nil
	}

	if r.generalFallback {
		r.logger.Warn("no resource mapping for condition, falling back to general surge",
			zap.String("condition", string(condition)))
		cp := copyProfile(r.profiles[entities.GeneralSurge])
		return &cp, nil
	}

	sentinel := entities.ErrMissingMapping
	if !condition.Valid() {
		sentinel = entities.ErrUnknownCondition
	}
	return nil, entities.NewConfigurationError("lookup mapping", fmt.Errorf("%w: %q", sentinel, condition))
}

// Requirements returns the ordered requirements for a condition
func (r *ResourceMappingRepository) Requirements(condition entities.ConditionType) ([]entities.ResourceRequirement, error) {
	p, err := r.Profile(condition)
	if err != nil {
		return nil, err
	}
	return p.Requirements, nil
}

// Conditions returns the mapped conditions in load order
func (r *ResourceMappingRepository) Conditions() []entities.ConditionType {
	out := make([]entities.ConditionType, len(r.order))
	copy(out, r.order)
	return out
}

// GeneralFallback reports whether unmapped lookups fall back to GENERAL_SURGE
func (r *ResourceMappingRepository) GeneralFallback() bool {
	return r.generalFallback
}

func copyProfile(p entities.ConditionProfile) entities.ConditionProfile {
	reqs := make([]entities.ResourceRequirement, len(p.Requirements))
	copy(reqs, p.Requirements)
	p.Requirements = reqs
	return p
}
