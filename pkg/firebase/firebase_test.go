package firebase

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitFirebaseRejectsMissingCredentials(t *testing.T) {
	ctx := context.Background()

	_, err := InitFirebase(ctx, "", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIREBASE_CREDENTIALS_PATH")

	missing := filepath.Join(t.TempDir(), "credentials.json")
	_, err = InitFirebase(ctx, missing, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
