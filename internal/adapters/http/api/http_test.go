package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/podium/internal/adapters/http/api"
	eventqueue "github.com/okian/podium/internal/adapters/mq/queue"
	repository "github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/adapters/ws"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
	"github.com/okian/podium/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// Mock implementations for testing
type mockDependencies struct {
	claimResult model.ClaimResult
	claimErr    error

	registered  model.Participant
	registerErr error

	rankings   []types.RankedParticipant
	rankingErr error

	participant    model.Participant
	participantErr error

	history          []model.HistoryEntry
	historyErr       error
	lastHistoryLimit int

	resetErr   error
	resetCalls int
}

func (m *mockDependencies) Claim(ctx context.Context, id string) (model.ClaimResult, error) {
	if m.claimErr != nil {
		return model.ClaimResult{}, m.claimErr
	}
	return m.claimResult, nil
}

func (m *mockDependencies) Register(ctx context.Context, name string) (model.Participant, error) {
	if m.registerErr != nil {
		return model.Participant{}, m.registerErr
	}
	return m.registered, nil
}

func (m *mockDependencies) Ranking(ctx context.Context) ([]types.RankedParticipant, error) {
	if m.rankingErr != nil {
		return nil, m.rankingErr
	}
	return m.rankings, nil
}

func (m *mockDependencies) Participant(ctx context.Context, id string) (model.Participant, error) {
	if m.participantErr != nil {
		return model.Participant{}, m.participantErr
	}
	return m.participant, nil
}

func (m *mockDependencies) History(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	m.lastHistoryLimit = limit
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.history, nil
}

func (m *mockDependencies) Reset(ctx context.Context) error {
	m.resetCalls++
	return m.resetErr
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestMux(deps *mockDependencies, stats *mockStatsProvider) *http.ServeMux {
	q := eventqueue.NewInMemoryQueue()
	hub := ws.NewHub(q, deps.Ranking)
	server := api.NewServer(deps, stats, hub)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func TestServer_Participants(t *testing.T) {
	Convey("Given an API server with a ranked roster", t, func() {
		deps := &mockDependencies{
			rankings: []types.RankedParticipant{
				{Rank: 1, ID: "a", Name: "Rahul", Points: 90},
				{Rank: 2, ID: "b", Name: "Kamal", Points: 40},
			},
			registered: model.Participant{
				ID: "c", Name: "Priya", Rank: 3, CreatedAt: time.Now().UTC(),
			},
		}
		mux := newTestMux(deps, &mockStatsProvider{})

		Convey("When listing participants", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/participants", nil))

			Convey("Then it should return the ranking in order", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var got []types.RankedParticipant
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].Name, ShouldEqual, "Rahul")
				So(got[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When registering a participant", func() {
			rec := httptest.NewRecorder()
			body := strings.NewReader(`{"name":"Priya"}`)
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/participants", body))

			Convey("Then it should return the created participant", func() {
				So(rec.Code, ShouldEqual, http.StatusCreated)
				So(rec.Body.String(), ShouldContainSubstring, `"name":"Priya"`)
				So(rec.Body.String(), ShouldContainSubstring, `"rank":3`)
			})
		})

		Convey("When registering with a blank name", func() {
			rec := httptest.NewRecorder()
			body := strings.NewReader(`{"name":"   "}`)
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/participants", body))

			Convey("Then it should reject the request", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When registering a taken name", func() {
			deps.registerErr = repository.ErrDuplicateName

			rec := httptest.NewRecorder()
			body := strings.NewReader(`{"name":"Rahul"}`)
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/participants", body))

			Convey("Then it should return a conflict", func() {
				So(rec.Code, ShouldEqual, http.StatusConflict)
				So(rec.Body.String(), ShouldContainSubstring, "duplicate_name")
			})
		})

		Convey("When fetching one participant", func() {
			deps.participant = model.Participant{ID: "a", Name: "Rahul", Points: 90, Rank: 1}

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/participants/a", nil))

			Convey("Then it should return the participant", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"name":"Rahul"`)
			})
		})

		Convey("When fetching an unknown participant", func() {
			deps.participantErr = repository.ErrNotFound

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/participants/zzz", nil))

			Convey("Then it should return not found", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestServer_Claim(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := &mockDependencies{
			claimResult: model.ClaimResult{
				ParticipantID: "a", Name: "Rahul", PointsGained: 42, TotalPoints: 132,
			},
		}
		mux := newTestMux(deps, &mockStatsProvider{})

		Convey("When claiming points", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/claim/a", nil))

			Convey("Then it should return the award", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var got types.ClaimInfo
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got.ParticipantID, ShouldEqual, "a")
				So(got.PointsGained, ShouldEqual, 42)
				So(got.TotalPoints, ShouldEqual, 132)
			})
		})

		Convey("When claiming for an unknown participant", func() {
			deps.claimErr = repository.ErrNotFound

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/claim/zzz", nil))

			Convey("Then it should return not found", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the store is unavailable", func() {
			deps.claimErr = repository.ErrUnavailable

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/claim/a", nil))

			Convey("Then it should return service unavailable", func() {
				So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("When using the wrong method", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/claim/a", nil))

			Convey("Then it should not be found", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the id is missing", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/claim/", nil))

			Convey("Then it should reject the request", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestServer_History(t *testing.T) {
	Convey("Given an API server with recorded claims", t, func() {
		deps := &mockDependencies{
			history: []model.HistoryEntry{
				{ID: "h2", ParticipantID: "a", ParticipantName: "Rahul", PointsGained: 10, TotalPoints: 30},
				{ID: "h1", ParticipantID: "a", ParticipantName: "Rahul", PointsGained: 20, TotalPoints: 20},
			},
		}
		mux := newTestMux(deps, &mockStatsProvider{})

		Convey("When reading history with a limit", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit=2", nil))

			Convey("Then it should pass the limit through and return entries", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastHistoryLimit, ShouldEqual, 2)

				var got []types.HistoryEntry
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0].ID, ShouldEqual, "h2")
			})
		})

		Convey("When reading history without a limit", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))

			Convey("Then the service default should apply", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.lastHistoryLimit, ShouldEqual, 0)
			})
		})

		Convey("When the limit is not a number", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit=abc", nil))

			Convey("Then it should reject the request", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestServer_Reset(t *testing.T) {
	Convey("Given an API server", t, func() {
		deps := &mockDependencies{}
		mux := newTestMux(deps, &mockStatsProvider{})

		Convey("When resetting the leaderboard", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reset", nil))

			Convey("Then it should acknowledge the reset", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"status":"reset"`)
				So(deps.resetCalls, ShouldEqual, 1)
			})
		})

		Convey("When using the wrong method", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reset", nil))

			Convey("Then it should not be found", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
				So(deps.resetCalls, ShouldEqual, 0)
			})
		})
	})
}

func TestServer_Stats(t *testing.T) {
	Convey("Given an API server with stats", t, func() {
		stats := &mockStatsProvider{stats: map[string]interface{}{
			"started":           true,
			"totalParticipants": 10,
		}}
		mux := newTestMux(&mockDependencies{}, stats)

		Convey("When fetching stats", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

			Convey("Then it should return the provider's view", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, `"totalParticipants":10`)
			})
		})
	})
}

func TestServer_Health(t *testing.T) {
	Convey("Given an API server", t, func() {
		mux := newTestMux(&mockDependencies{}, &mockStatsProvider{})

		Convey("When probing the health endpoint", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			Convey("Then it should serve scrapeable metrics", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}
