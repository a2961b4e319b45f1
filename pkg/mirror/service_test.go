package mirror

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/holon-run/fresheyes/pkg/credential"
)

func TestServiceMissingCredential(t *testing.T) {
	built := 0
	factory := func(string) Remote {
		built++
		return newFakeRemote()
	}

	tests := []struct {
		name  string
		creds credential.Provider
	}{
		{name: "nil provider", creds: nil},
		{name: "empty static token", creds: credential.Static("")},
		{name: "empty chain", creds: credential.Chain{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.creds, factory)
			_, err := svc.Mirror(context.Background(), bitcoin79)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingField)
			assert.Contains(t, err.Error(), "GitHub credential is required")
		})
	}
	assert.Equal(t, 0, built)
}

func TestServiceValidatesBeforeResolvingCredential(t *testing.T) {
	resolved := false
	creds := credential.ProviderFunc(func(context.Context) (string, error) {
		resolved = true
		return "token", nil
	})

	_, err := NewService(creds, nil).Mirror(context.Background(), Request{Owner: "bitcoin"})
	assert.ErrorIs(t, err, ErrMissingField)
	assert.False(t, resolved)
}

func TestServicePassesTokenToFactory(t *testing.T) {
	remote := newFakeRemote()
	var gotToken string
	factory := func(token string) Remote {
		gotToken = token
		return remote
	}

	svc := NewService(credential.Static("base-token"), factory, WithLogger(zap.NewNop().Sugar()))
	result, err := svc.WithCredentials(credential.Static("request-token")).Mirror(context.Background(), bitcoin79, WithReviewLookup(false))
	require.NoError(t, err)
	assert.Equal(t, "request-token", gotToken)
	assert.NotEmpty(t, result.PRURL)
	assert.Equal(t, 0, remote.count("list_comments"))
}

func TestServicePropagatesProviderErrors(t *testing.T) {
	boom := errors.New("keychain locked")
	creds := credential.ProviderFunc(func(context.Context) (string, error) { return "", boom })

	_, err := NewService(creds, func(string) Remote { return newFakeRemote() }).Mirror(context.Background(), bitcoin79)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrMissingField)
}

func TestWriteAndReadResult(t *testing.T) {
	remote := newFakeRemote()
	result, err := newTestWorkflow(remote).Run(context.Background(), bitcoin79)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, WriteResult(dir, result))

	_, err = os.Stat(filepath.Join(dir, ResultFile))
	require.NoError(t, err)

	read, err := ReadResult(dir)
	require.NoError(t, err)
	assert.Equal(t, result.PRURL, read.PRURL)
	assert.Equal(t, result.Details, read.Details)
	assert.Len(t, read.Steps, len(result.Steps))
	assert.True(t, result.CompletedAt.Equal(read.CompletedAt))

	assert.Error(t, WriteResult(dir, nil))
}
