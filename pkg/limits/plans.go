package limits

import "github.com/turismoguilherme/descubra-ms-sub014/pkg/models"

// DefaultPlans returns the static per-tier quota table. Immutable at
// runtime; changing a ceiling is a deploy, not a database write.
func DefaultPlans() map[models.PlanTier]models.PlanLimits {
	return map[models.PlanTier]models.PlanLimits{
		models.PlanStarter: {
			models.APITypeGenerativeText: {Daily: 100, Monthly: 2000},
			models.APITypeWebSearch:      {Daily: 50, Monthly: 1000},
			models.APITypeWeather:        {Daily: 200, Monthly: 4000},
			models.APITypePlaces:         {Daily: 100, Monthly: 2000},
		},
		models.PlanProfessional: {
			models.APITypeGenerativeText: {Daily: 500, Monthly: 10000},
			models.APITypeWebSearch:      {Daily: 250, Monthly: 5000},
			models.APITypeWeather:        {Daily: 1000, Monthly: 20000},
			models.APITypePlaces:         {Daily: 500, Monthly: 10000},
		},
		models.PlanEnterprise: {
			models.APITypeGenerativeText: {Daily: 2000, Monthly: 40000},
			models.APITypeWebSearch:      {Daily: 1000, Monthly: 20000},
			models.APITypeWeather:        {Daily: 5000, Monthly: 100000},
			models.APITypePlaces:         {Daily: 2000, Monthly: 40000},
		},
	}
}
