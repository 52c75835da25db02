package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assetline/internal/domain"
	"assetline/internal/engine"
	"assetline/internal/metrics"
	"assetline/internal/report"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	BasePath string
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"asset not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Assetline API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	hcfg := huma.DefaultConfig("Assetline API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerAssets(group, cfg.Engine)
	registerPeople(group, cfg.Engine)
	registerLocations(group, cfg.Engine)
	registerTasks(group, cfg.Engine)
	registerActivities(group, cfg.Engine)
	registerDashboard(group, cfg.Engine)
	registerReport(group, cfg.Engine)
	registerOpenAPI(router, api, basePath)
	router.Handle("/metrics", promhttp.Handler())

	startWebhookDispatcher(cfg.Engine)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			spec, _ = json.Marshal(api.OpenAPI())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Assetline API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
  </body>
</html>`, specURL)
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerAssets(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-assets",
		Method:      http.MethodGet,
		Path:        "/assets",
		Summary:     "List assets",
	}, func(ctx context.Context, input *struct {
		Status   string `query:"status" enum:"verified,pending,flagged,retired,"`
		Category string `query:"category"`
	}) (*struct {
		Body []domain.Asset `json:"body"`
	}, error) {
		snap := e.Snapshot()
		items := []domain.Asset{}
		for _, a := range snap.Assets {
			if input.Status != "" && string(a.Status) != input.Status {
				continue
			}
			if input.Category != "" && a.Category != input.Category {
				continue
			}
			items = append(items, a)
		}
		return &struct {
			Body []domain.Asset `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "register-asset",
		Method:        http.MethodPost,
		Path:          "/assets",
		Summary:       "Register asset",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body RegisterAssetRequest `json:"body"`
	}) (*struct {
		Body domain.Asset `json:"body"`
	}, error) {
		if input.Body.Name == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "name is required", nil)
		}
		if input.Body.LocationID == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "locationId is required", nil)
		}
		asset := e.RegisterAsset(domain.Asset{
			Name:           input.Body.Name,
			AssetTag:       input.Body.AssetTag,
			Category:       input.Body.Category,
			OwnerID:        input.Body.OwnerID,
			LocationID:     input.Body.LocationID,
			RiskRating:     input.Body.RiskRating,
			SerialNumber:   input.Body.SerialNumber,
			PurchaseDate:   input.Body.PurchaseDate,
			WarrantyExpiry: input.Body.WarrantyExpiry,
			CostCenter:     input.Body.CostCenter,
			Tags:           input.Body.Tags,
		})
		return &struct {
			Body domain.Asset `json:"body"`
		}{Body: asset}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-asset",
		Method:      http.MethodGet,
		Path:        "/assets/{id}",
		Summary:     "Get asset",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body AssetDetailResponse `json:"body"`
	}, error) {
		snap := e.Snapshot()
		asset, ok := snap.Asset(input.ID)
		if !ok {
			return nil, newAPIError(http.StatusNotFound, "not_found", "asset not found", nil)
		}
		return &struct {
			Body AssetDetailResponse `json:"body"`
		}{Body: assetDetail(snap, asset)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-asset",
		Method:      http.MethodPut,
		Path:        "/assets/{id}",
		Summary:     "Replace asset",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string       `path:"id"`
		Body domain.Asset `json:"body"`
	}) (*struct {
		Body domain.Asset `json:"body"`
	}, error) {
		asset := input.Body
		if asset.ID == "" {
			asset.ID = input.ID
		}
		if asset.ID != input.ID {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body id does not match path", nil)
		}
		if !e.UpdateAsset(asset) {
			return nil, newAPIError(http.StatusNotFound, "not_found", "asset not found", nil)
		}
		return &struct {
			Body domain.Asset `json:"body"`
		}{Body: asset}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "record-verification",
		Method:        http.MethodPost,
		Path:          "/assets/{id}/verifications",
		Summary:       "Record verification",
		Description:   "Records an evidence-collection event, derives the asset's compliance posture, and cascades task status changes for the outcome.",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string                    `path:"id"`
		Body RecordVerificationRequest `json:"body"`
	}) (*struct {
		Body domain.VerificationRecord `json:"body"`
	}, error) {
		if input.Body.Status == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "status is required", nil)
		}
		if input.Body.PerformedByID == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "performedById is required", nil)
		}
		rec, ok := e.RecordVerification(engine.VerificationInput{
			AssetID:       input.ID,
			Date:          input.Body.Date,
			Outcome:       input.Body.Status,
			PerformedByID: input.Body.PerformedByID,
			Notes:         input.Body.Notes,
			Issues:        input.Body.Issues,
		})
		if !ok {
			return nil, newAPIError(http.StatusNotFound, "not_found", "asset not found", nil)
		}
		return &struct {
			Body domain.VerificationRecord `json:"body"`
		}{Body: rec}, nil
	})
}

func registerPeople(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-people",
		Method:      http.MethodGet,
		Path:        "/people",
		Summary:     "List people",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Person `json:"body"`
	}, error) {
		return &struct {
			Body []domain.Person `json:"body"`
		}{Body: e.Snapshot().People}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-person",
		Method:      http.MethodGet,
		Path:        "/people/{id}",
		Summary:     "Get person",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body domain.Person `json:"body"`
	}, error) {
		p, ok := e.Snapshot().Person(input.ID)
		if !ok {
			return nil, newAPIError(http.StatusNotFound, "not_found", "person not found", nil)
		}
		return &struct {
			Body domain.Person `json:"body"`
		}{Body: p}, nil
	})
}

func registerLocations(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-locations",
		Method:      http.MethodGet,
		Path:        "/locations",
		Summary:     "List locations",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Location `json:"body"`
	}, error) {
		return &struct {
			Body []domain.Location `json:"body"`
		}{Body: e.Snapshot().Locations}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-location",
		Method:      http.MethodGet,
		Path:        "/locations/{id}",
		Summary:     "Get location",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body domain.Location `json:"body"`
	}, error) {
		l, ok := e.Snapshot().Location(input.ID)
		if !ok {
			return nil, newAPIError(http.StatusNotFound, "not_found", "location not found", nil)
		}
		return &struct {
			Body domain.Location `json:"body"`
		}{Body: l}, nil
	})
}

func registerTasks(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List verification tasks",
	}, func(ctx context.Context, input *struct {
		Status  string `query:"status" enum:"scheduled,in-progress,completed,overdue,"`
		AssetID string `query:"asset_id"`
	}) (*struct {
		Body []domain.VerificationTask `json:"body"`
	}, error) {
		items := []domain.VerificationTask{}
		for _, t := range e.Snapshot().Tasks {
			if input.Status != "" && string(t.Status) != input.Status {
				continue
			}
			if input.AssetID != "" && t.AssetID != input.AssetID {
				continue
			}
			items = append(items, t)
		}
		return &struct {
			Body []domain.VerificationTask `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Schedule verification task",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateTaskRequest `json:"body"`
	}) (*struct {
		Body domain.VerificationTask `json:"body"`
	}, error) {
		if input.Body.AssetID == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "assetId is required", nil)
		}
		if input.Body.DueDate == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "dueDate is required", nil)
		}
		task := e.AddTask(domain.VerificationTask{
			AssetID:      input.Body.AssetID,
			DueDate:      input.Body.DueDate,
			AssignedToID: input.Body.AssignedToID,
			Priority:     input.Body.Priority,
			Checklist:    input.Body.Checklist,
		})
		return &struct {
			Body domain.VerificationTask `json:"body"`
		}{Body: task}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-task-status",
		Method:      http.MethodPatch,
		Path:        "/tasks/{id}/status",
		Summary:     "Change task status",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string               `path:"id"`
		Body SetTaskStatusRequest `json:"body"`
	}) (*struct {
		Body domain.VerificationTask `json:"body"`
	}, error) {
		if input.Body.Status == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "status is required", nil)
		}
		if !e.SetTaskStatus(input.ID, input.Body.Status) {
			return nil, newAPIError(http.StatusNotFound, "not_found", "task not found", nil)
		}
		task, _ := e.Snapshot().Task(input.ID)
		return &struct {
			Body domain.VerificationTask `json:"body"`
		}{Body: task}, nil
	})
}

func registerActivities(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-activities",
		Method:      http.MethodGet,
		Path:        "/activities",
		Summary:     "List activity log",
	}, func(ctx context.Context, input *struct {
		Severity string `query:"severity" enum:"info,warning,critical,"`
	}) (*struct {
		Body []domain.ActivityEntry `json:"body"`
	}, error) {
		items := []domain.ActivityEntry{}
		for _, a := range e.Snapshot().Activities {
			if input.Severity != "" && string(a.Severity) != input.Severity {
				continue
			}
			items = append(items, a)
		}
		return &struct {
			Body []domain.ActivityEntry `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "log-activity",
		Method:        http.MethodPost,
		Path:          "/activities",
		Summary:       "Log activity entry",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body LogActivityRequest `json:"body"`
	}) (*struct {
		Body domain.ActivityEntry `json:"body"`
	}, error) {
		if input.Body.Title == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "title is required", nil)
		}
		entry := e.LogActivity(domain.ActivityEntry{
			Type:        input.Body.Type,
			Title:       input.Body.Title,
			Description: input.Body.Description,
			AssetID:     input.Body.AssetID,
			PersonID:    input.Body.PersonID,
			Severity:    input.Body.Severity,
		})
		return &struct {
			Body domain.ActivityEntry `json:"body"`
		}{Body: entry}, nil
	})
}

func registerDashboard(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "dashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard",
		Summary:     "Dashboard metrics",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body metrics.Overview `json:"body"`
	}, error) {
		overview := metrics.ComputeOverview(e.Snapshot(), e.Now(), e.Config.Verification.DueSoonDays)
		return &struct {
			Body metrics.Overview `json:"body"`
		}{Body: overview}, nil
	})
}

func registerReport(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "report",
		Method:      http.MethodGet,
		Path:        "/report",
		Summary:     "Export report document",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body report.Document `json:"body"`
	}, error) {
		doc := report.Build(e.Snapshot(), e.Now(), e.Config.Report.SampleSize)
		return &struct {
			Body report.Document `json:"body"`
		}{Body: doc}, nil
	})
}
