package audit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gophkeeper-sessions/internal/mocks"
	"github.com/dtroode/gophkeeper-sessions/internal/model"
	"github.com/dtroode/gophkeeper-sessions/internal/testutil"
)

func TestArchive_ReportReuse(t *testing.T) {
	storage := mocks.NewStorage(t)
	archive := NewArchive(storage, testutil.MakeNoopLogger())

	event := model.ReuseEvent{
		TokenID:    uuid.New(),
		SubjectID:  "u1",
		RevokedAt:  time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		DetectedAt: time.Date(2026, 10, 16, 12, 30, 0, 0, time.UTC),
	}

	var (
		gotKey  string
		gotBody []byte
	)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Run(func(args mock.Arguments) {
			gotKey = args.String(1)
			body, err := io.ReadAll(args.Get(2).(io.Reader))
			require.NoError(t, err)
			gotBody = body
		}).
		Return(nil).Once()

	require.NoError(t, archive.ReportReuse(context.Background(), event))

	assert.True(t, strings.HasPrefix(gotKey, "reuse/2026/10/16/"+event.TokenID.String()+"-"), gotKey)
	assert.True(t, strings.HasSuffix(gotKey, ".json"))

	var decoded model.ReuseEvent
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Equal(t, event.TokenID, decoded.TokenID)
	assert.Equal(t, "u1", decoded.SubjectID)
	assert.True(t, event.DetectedAt.Equal(decoded.DetectedAt))
}

func TestArchive_ReportReuse_DistinctKeys(t *testing.T) {
	storage := mocks.NewStorage(t)
	archive := NewArchive(storage, testutil.MakeNoopLogger())

	keys := map[string]struct{}{}
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { keys[args.String(1)] = struct{}{} }).
		Return(nil)

	event := model.ReuseEvent{TokenID: uuid.New(), SubjectID: "u1", DetectedAt: time.Now()}
	for i := 0; i < 3; i++ {
		require.NoError(t, archive.ReportReuse(context.Background(), event))
	}
	assert.Len(t, keys, 3)
}

func TestArchive_ReportReuse_StorageError(t *testing.T) {
	storage := mocks.NewStorage(t)
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("access denied"))
	archive := NewArchive(storage, testutil.MakeNoopLogger())

	err := archive.ReportReuse(context.Background(), model.ReuseEvent{TokenID: uuid.New(), SubjectID: "u1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to archive reuse event")
}
