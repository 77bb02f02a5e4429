package leads

import (
	"fmt"

	"realty_crm_backend/internal/leads/assignment"
	"realty_crm_backend/internal/leads/domain"
	"realty_crm_backend/internal/leads/guidance"
	"realty_crm_backend/internal/leads/repository"
	"realty_crm_backend/internal/leads/rostercache"
	"realty_crm_backend/internal/leads/service"
	"realty_crm_backend/platform/config"
	"realty_crm_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// NewService assembles the lead service on top of Postgres and an optional
// Redis roster cache. rdb may be nil.
func NewService(db repository.DB, rdb *redis.Client, cfg config.LeadsConfig, log *logger.Logger) (*service.Service, error) {
	rules, err := guidance.LoadRules(cfg.GetGuidanceRulesFile())
	if err != nil {
		return nil, fmt.Errorf("load guidance rules: %w", err)
	}

	repo := repository.New(db)
	roster := rostercache.New(rdb, repo, cfg.GetRosterCacheTTL(), log)

	return service.New(repo, roster, domain.SystemClock{}, service.Options{
		Location:    cfg.GetBusinessLocation(),
		PhoneRegion: cfg.GetPhoneDefaultRegion(),
		Rules:       rules,
		Assignment:  assignment.Options{ExpertiseBonus: cfg.GetAssignmentExpertiseBonus()},
	}, log), nil
}
