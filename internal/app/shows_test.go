package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/cineverse/booking-platform/api"
	"github.com/cineverse/booking-platform/internal/domain"
	"github.com/cineverse/booking-platform/internal/mocks"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ShowsTestSuite struct {
	suite.Suite
	app      *Application
	showRepo *mocks.MockShowRepo
}

func (s *ShowsTestSuite) SetupTest() {
	s.showRepo = new(mocks.MockShowRepo)

	s.app = newTestApplication(func(a *Application) {
		a.showRepo = s.showRepo
	})
}

func TestShowsSuite(t *testing.T) {
	suite.Run(t, new(ShowsTestSuite))
}

func (s *ShowsTestSuite) TestGetShow() {
	show := testShow()

	tests := []struct {
		name           string
		showID         string
		setupMocks     func()
		wantStatus     int
		wantResponse   *api.ShowResponse
		wantErrMessage string
	}{
		{
			name:           "should fail when show ID is not a positive integer",
			showID:         "abc",
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "show ID must be a positive integer",
		},
		{
			name:   "should fail when show does not exist",
			showID: "999",
			setupMocks: func() {
				s.showRepo.On("GetById", mock.Anything, 999).Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "should fail when database error occurs",
			showID: "1",
			setupMocks: func() {
				s.showRepo.On("GetById", mock.Anything, 1).Return(nil, fmt.Errorf("database error"))
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
		{
			name:   "should return show details",
			showID: "1",
			setupMocks: func() {
				s.showRepo.On("GetById", mock.Anything, 1).Return(show, nil)
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.ShowResponse{
				Id:          show.ID,
				MovieName:   show.MovieName,
				TheatreName: show.TheatreName,
				ShowDate:    show.ShowDate,
				ShowTime:    show.ShowTime,
				Price:       show.Price,
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			defer s.showRepo.AssertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodGet, "/api/shows/"+tt.showID, nil)
			r = withURLParam(r, "id", tt.showID)

			s.app.GetShowHandler(w, r)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResponse != nil {
				var response api.ShowResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				s.Require().NoError(err, "Failed to decode response")

				diff := cmp.Diff(tt.wantResponse, &response)
				s.Empty(diff, "Response mismatch (-want +got):\n%s", diff)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}
