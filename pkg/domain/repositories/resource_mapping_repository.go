package repositories

import "github.com/vsinha/surgealloc/pkg/domain/entities"

// ResourceMappingRepository provides read-only access to the condition knowledge base
type ResourceMappingRepository interface {
	Profile(condition entities.ConditionType) (*entities.ConditionProfile, error)
	Requirements(condition entities.ConditionType) ([]entities.ResourceRequirement, error)
	Conditions() []entities.ConditionType
}
