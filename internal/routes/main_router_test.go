package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"painel-solicitacoes/internal/dto"
	"painel-solicitacoes/pkg/config"
	"painel-solicitacoes/pkg/customvalidator"
	"painel-solicitacoes/pkg/database/postgresql"
	"painel-solicitacoes/pkg/eventbus"
	"painel-solicitacoes/pkg/utils"
)

// RequestAPITestSuite прогоняет API панели против настоящей БД из TEST_DATABASE_URL.
type RequestAPITestSuite struct {
	suite.Suite
	Echo *echo.Echo
	DB   *pgxpool.Pool
	Bus  *eventbus.Bus
}

func (s *RequestAPITestSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		s.T().Skip("TEST_DATABASE_URL не задан")
	}

	ctx := context.Background()
	logger := zap.NewNop()
	db, err := postgresql.ConnectDB(ctx, dsn, logger)
	s.Require().NoError(err)
	s.Require().NoError(postgresql.Migrate(ctx, db))
	_, err = db.Exec(ctx, "TRUNCATE TABLE requests RESTART IDENTITY")
	s.Require().NoError(err)

	v, err := customvalidator.New()
	s.Require().NoError(err)

	cfg := &config.Config{}
	cfg.Server.BasePath = "/api"
	cfg.App.Version = "1.0.0"

	e := echo.New()
	e.Validator = utils.NewValidator(v)
	bus := eventbus.New(logger)
	InitRouter(e, db, nil, bus, v, logger, cfg, prometheus.NewRegistry())

	s.Echo, s.DB, s.Bus = e, db, bus
}

func (s *RequestAPITestSuite) TearDownSuite() {
	if s.Bus != nil {
		s.Bus.Wait()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}

func (s *RequestAPITestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *RequestAPITestSuite) Test1_CreateUpdateAndList() {
	rec := s.do(http.MethodPost, "/api/requests",
		`{"solicitante":"Ana","area_solicitante":"Recebimento","tipo_operacao":"Entrega","codigo_item":"ITM-1"}`)
	s.Require().Equal(http.StatusCreated, rec.Code)

	var created struct {
		Data dto.RequestDTO `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	s.Equal("EMP0001", created.Data.ID)
	s.Equal("pendente", created.Data.Status)

	rec = s.do(http.MethodPut, "/api/requests/EMP0001", `{"status":"em-andamento","observacao":"separando"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/requests?status=em-andamento&area=todos", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	var list []dto.RequestDTO
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &list))
	s.Require().Len(list, 1)
	s.NotEmpty(list[0].Inicio)
	s.Equal("separando", list[0].Observacao)

	rec = s.do(http.MethodGet, "/api/requests/stats", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"pendentes":0,"em_andamento":1,"concluidos":0,"total":1}`, rec.Body.String())
}

func (s *RequestAPITestSuite) Test2_UpdateUnknown() {
	rec := s.do(http.MethodPut, "/api/requests/EMP9999", `{"status":"concluido"}`)
	s.Equal(http.StatusNotFound, rec.Code)
	s.JSONEq(`{"error":"Solicitação não encontrada"}`, rec.Body.String())
}

func (s *RequestAPITestSuite) Test3_Health() {
	rec := s.do(http.MethodGet, "/api/health", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"status":"healthy"`)
}

func TestRequestAPITestSuite(t *testing.T) {
	suite.Run(t, new(RequestAPITestSuite))
}
