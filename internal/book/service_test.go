package book

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MockRepository, *MockLogCounter) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := NewMockRepository(ctrl)
	logs := NewMockLogCounter(ctrl)
	svc := NewService(repo, logs, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC) }
	return svc, repo, logs
}

func strPtr(s string) *string    { return &s }
func intPtr(v int) *int          { return &v }
func ratePtr(v float64) *float64 { return &v }

func TestCreate_DefaultsAndStamps(t *testing.T) {
	svc, repo, _ := newTestService(t)

	t.Run("defaults to TO_READ", func(t *testing.T) {
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		b, err := svc.Create(context.Background(), "u1", CreateParams{Title: "Dune"})
		require.NoError(t, err)
		assert.Equal(t, StatusToRead, b.Status)
		assert.Nil(t, b.StartDate)
	})

	t.Run("created as READING stamps start date", func(t *testing.T) {
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		b, err := svc.Create(context.Background(), "u1", CreateParams{Title: "Dune", Status: StatusReading})
		require.NoError(t, err)
		require.NotNil(t, b.StartDate)
		assert.Equal(t, "2025-06-10", *b.StartDate)
	})

	t.Run("created as FINISHED completes pages", func(t *testing.T) {
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		b, err := svc.Create(context.Background(), "u1", CreateParams{
			Title: "Dune", Status: StatusFinished, TotalPages: intPtr(412),
		})
		require.NoError(t, err)
		require.NotNil(t, b.EndDate)
		assert.Equal(t, 412, b.PagesRead)
	})

	t.Run("expected rating seeds the overall", func(t *testing.T) {
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		b, err := svc.Create(context.Background(), "u1", CreateParams{
			Title: "Dune", ExpectedRating: ratePtr(4),
		})
		require.NoError(t, err)
		require.NotNil(t, b.OverallRating)
		assert.InDelta(t, 4.0, *b.OverallRating, 0.001)
	})
}

func TestUpdateStatus_LifecycleRules(t *testing.T) {
	existing := Book{
		ID:         "b1",
		UserID:     "u1",
		Status:     StatusReading,
		TotalPages: intPtr(300),
		PagesRead:  120,
		StartDate:  strPtr("2025-06-01"),
	}

	t.Run("finishing stamps end date and completes pages", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), "u1", "b1").Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		b, err := svc.UpdateStatus(context.Background(), "u1", "b1", StatusFinished)
		require.NoError(t, err)
		assert.Equal(t, StatusFinished, b.Status)
		require.NotNil(t, b.EndDate)
		assert.Equal(t, "2025-06-10", *b.EndDate)
		assert.Equal(t, 300, b.PagesRead)
	})

	t.Run("back to TO_READ rejected with progress", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), "u1", "b1").Return(existing, nil)

		_, err := svc.UpdateStatus(context.Background(), "u1", "b1", StatusToRead)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("back to TO_READ rejected with logged sessions", func(t *testing.T) {
		svc, repo, logs := newTestService(t)
		fresh := existing
		fresh.PagesRead = 0
		repo.EXPECT().GetByID(gomock.Any(), "u1", "b1").Return(fresh, nil)
		logs.EXPECT().CountForBook(gomock.Any(), "b1").Return(2, nil)

		_, err := svc.UpdateStatus(context.Background(), "u1", "b1", StatusToRead)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("back to TO_READ allowed when untouched", func(t *testing.T) {
		svc, repo, logs := newTestService(t)
		fresh := existing
		fresh.PagesRead = 0
		repo.EXPECT().GetByID(gomock.Any(), "u1", "b1").Return(fresh, nil)
		logs.EXPECT().CountForBook(gomock.Any(), "b1").Return(0, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		b, err := svc.UpdateStatus(context.Background(), "u1", "b1", StatusToRead)
		require.NoError(t, err)
		assert.Equal(t, StatusToRead, b.Status)
	})

	t.Run("leaving FINISHED clears final rating and end date", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		finished := existing
		finished.Status = StatusFinished
		finished.EndDate = strPtr("2025-06-05")
		finished.ExpectedRating = ratePtr(4)
		finished.FinalRating = ratePtr(5)
		finished.RecomputeOverall()

		repo.EXPECT().GetByID(gomock.Any(), "u1", "b1").Return(finished, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		b, err := svc.UpdateStatus(context.Background(), "u1", "b1", StatusReading)
		require.NoError(t, err)
		assert.Nil(t, b.FinalRating)
		assert.Nil(t, b.EndDate)
		require.NotNil(t, b.OverallRating)
		assert.InDelta(t, 4.0, *b.OverallRating, 0.001) // expected only
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		repo.EXPECT().GetByID(gomock.Any(), "u1", "b1").Return(existing, nil)

		b, err := svc.UpdateStatus(context.Background(), "u1", "b1", StatusReading)
		require.NoError(t, err)
		assert.Equal(t, existing, b)
	})
}

func TestSetRating(t *testing.T) {
	svc, repo, _ := newTestService(t)
	existing := Book{ID: "b1", UserID: "u1", Status: StatusReading, ExpectedRating: ratePtr(3)}

	t.Run("progress rating folds into overall", func(t *testing.T) {
		repo.EXPECT().GetByID(gomock.Any(), "u1", "b1").Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		b, err := svc.SetRating(context.Background(), "u1", "b1", StageProgress, ratePtr(5))
		require.NoError(t, err)
		require.NotNil(t, b.OverallRating)
		assert.InDelta(t, 4.0, *b.OverallRating, 0.001)
	})

	t.Run("clearing a slot recomputes", func(t *testing.T) {
		repo.EXPECT().GetByID(gomock.Any(), "u1", "b1").Return(existing, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		b, err := svc.SetRating(context.Background(), "u1", "b1", StageExpected, nil)
		require.NoError(t, err)
		assert.Nil(t, b.OverallRating)
	})

	t.Run("out of range rejected", func(t *testing.T) {
		_, err := svc.SetRating(context.Background(), "u1", "b1", StageFinal, ratePtr(7))
		assert.Error(t, err)
	})

	t.Run("unknown stage rejected", func(t *testing.T) {
		_, err := svc.SetRating(context.Background(), "u1", "b1", RatingStage("vibes"), ratePtr(3))
		assert.Error(t, err)
	})
}

func TestCreate_MetadataEnrichment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepository(ctrl)
	meta := NewMockMetadataSource(ctrl)
	svc := NewService(repo, nil, meta)

	meta.EXPECT().Lookup(gomock.Any(), "9780441013593").Return(Metadata{
		Title:       "Dune",
		Publisher:   "Ace",
		PublishYear: "1965",
		PageCount:   412,
		CoverURL:    "https://covers.example/dune.jpg",
	}, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	b, err := svc.Create(context.Background(), "u1", CreateParams{ISBN: "9780441013593"})
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "Ace", b.Publisher)
	require.NotNil(t, b.TotalPages)
	assert.Equal(t, 412, *b.TotalPages)
	require.NotNil(t, b.CoverURL)
}

func TestOverall(t *testing.T) {
	assert.Nil(t, Overall(nil, nil, nil))

	got := Overall(ratePtr(2), nil, ratePtr(4))
	require.NotNil(t, got)
	assert.InDelta(t, 3.0, *got, 0.001)
}

func TestNormalizeCategories(t *testing.T) {
	got := NormalizeCategories([]string{" science fiction ", "FANTASY", "fantasy", "", "history"})
	assert.Equal(t, []string{"Science Fiction", "Fantasy", "History"}, got)
}
