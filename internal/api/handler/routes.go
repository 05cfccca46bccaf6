package handler

import (
	"net/http"

	"github.com/vfg2006/ad-report-engine/infrastructure/repository"
	"github.com/vfg2006/ad-report-engine/internal/api/handler/router"
	"github.com/vfg2006/ad-report-engine/internal/usecases/reporting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Datasets(repo repository.DatasetRepository) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/datasets",
			Method:  http.MethodPost,
			Handler: UploadDataset(repo),
		},
		{
			Path:    "/v1/datasets",
			Method:  http.MethodGet,
			Handler: ListDatasets(repo),
		},
		{
			Path:    "/v1/datasets/:id",
			Method:  http.MethodGet,
			Handler: GetDataset(repo),
		},
		{
			Path:    "/v1/datasets/:id",
			Method:  http.MethodDelete,
			Handler: DeleteDataset(repo),
		},
	}
}

func Reports(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/reports/aggregate",
			Method:  http.MethodPost,
			Handler: AggregateReport(service),
		},
	}
}

func GoogleMonthGroups(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/google/month-groups",
			Method:  http.MethodGet,
			Handler: ListGoogleMonthGroups(service),
		},
		{
			Path:    "/v1/google/month-groups/:id/dataset",
			Method:  http.MethodGet,
			Handler: GetGoogleVirtualDataset(service),
		},
	}
}

func Unified(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/unified/months",
			Method:  http.MethodGet,
			Handler: ListUnifiedMonths(service),
		},
		{
			Path:    "/v1/unified/months/:id/view",
			Method:  http.MethodGet,
			Handler: GetUnifiedView(service),
		},
		{
			Path:    "/v1/unified/months/:id/comparison",
			Method:  http.MethodGet,
			Handler: GetUnifiedComparison(service),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
	}
}
