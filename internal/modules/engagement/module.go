package engagement

import (
	"github.com/jmoiron/sqlx"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/engagement/application"
	"github.com/wayfarerhq/wayfarer-backend/internal/modules/engagement/infrastructure/persistence/postgres"
	engagement_http "github.com/wayfarerhq/wayfarer-backend/internal/modules/engagement/interfaces/http"
)

type Module struct {
	repo    *postgres.PgEngagementRepository
	service *application.EngagementService
	handler *engagement_http.EngagementHandler
}

// NewModule wires the engagement module. The repository is created before the
// notification module needs it as a post resolver, so construction is split:
// NewModule builds the repository, Bind attaches the notifier and finishes
// the wiring.
func NewModule(db *sqlx.DB) *Module {
	return &Module{repo: postgres.NewPgEngagementRepository(db)}
}

func (m *Module) Bind(notifier application.Notifier) {
	m.service = application.NewEngagementService(m.repo, notifier)
	m.handler = engagement_http.NewEngagementHandler(m.service)
}

func (m *Module) Repository() *postgres.PgEngagementRepository {
	return m.repo
}

func (m *Module) HTTPHandler() *engagement_http.EngagementHandler {
	return m.handler
}

func (m *Module) Service() *application.EngagementService {
	return m.service
}
