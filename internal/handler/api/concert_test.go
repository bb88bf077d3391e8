//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"concert-ticket-api/internal/handler/api"
	resdto "concert-ticket-api/internal/handler/dto/response"
	"concert-ticket-api/internal/usecase/queries"
	"concert-ticket-api/tests/common/httptest"
	queriesmock "concert-ticket-api/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ConcertHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	mockCtrl *gomock.Controller
	mockTier *queriesmock.MockTierQueries
	handler  *api.ConcertHandler
}

func (s *ConcertHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockTier = queriesmock.NewMockTierQueries(s.mockCtrl)
	s.handler = api.NewConcertHandler(s.mockTier)

	s.router.GET("/concerts/:id/tiers", s.handler.ListTiers)
}

func (s *ConcertHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestConcertHandlerSuite(t *testing.T) {
	suite.Run(t, new(ConcertHandlerTestSuite))
}

func (s *ConcertHandlerTestSuite) TestListTiers() {
	concertID := uuid.New()
	url := "/concerts/" + concertID.String() + "/tiers"

	s.Run("success: returns availability snapshot", func() {
		views := []*queries.TierView{
			{ID: uuid.New(), ConcertID: concertID, Name: "VIP", UnitPriceCents: 12000, TotalQty: 50, AvailableQty: 12},
			{ID: uuid.New(), ConcertID: concertID, Name: "General Admission", UnitPriceCents: 4500, TotalQty: 500, AvailableQty: 373},
		}
		s.mockTier.EXPECT().ListByConcert(gomock.Any(), concertID).Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response []resdto.TierResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal("VIP", response[0].Name)
		s.Equal(int32(12), response[0].AvailableQty)
	})

	s.Run("success: empty tier list", func() {
		s.mockTier.EXPECT().ListByConcert(gomock.Any(), concertID).Return([]*queries.TierView{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response []resdto.TierResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response)
	})

	s.Run("error: 400 Bad Request for malformed ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/concerts/not-a-uuid/tiers", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid_id")
	})

	s.Run("error: 404 Not Found for unknown concert", func() {
		s.mockTier.EXPECT().ListByConcert(gomock.Any(), concertID).Return(nil, queries.ErrConcertNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "concert_not_found")
	})
}
