package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/deetask/internal/application/port/output"
	"github.com/YoshitsuguKoike/deetask/internal/domain/model"
)

var uploadTime = time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)

func newLocal(t *testing.T) (*LocalSnapshotGateway, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	g, err := NewLocalSnapshotGateway(fs, "/home/snapshots")
	require.NoError(t, err)
	g.now = func() time.Time { return uploadTime }
	return g, fs
}

func newS3(prefix string) (*S3SnapshotGateway, *MockS3Client) {
	client := NewMockS3Client()
	g := NewS3SnapshotGatewayWithClient(client, "widgets", prefix)
	g.now = func() time.Time { return uploadTime }
	return g, client
}

func TestSnapshotGateways_RoundTrip(t *testing.T) {
	local, _ := newLocal(t)
	s3g, _ := newS3("deetask")

	gateways := map[string]output.SnapshotGateway{
		"local": local,
		"s3":    s3g,
		"mock":  NewMockSnapshotGateway(),
	}
	for name, g := range gateways {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			req := output.SaveSnapshotRequest{
				Key:         "glance/2026-02-03.json",
				Content:     []byte(`{"date_key":"2026-02-03"}`),
				ContentType: "application/json",
				Metadata:    map[string]string{"scope": "TODAY_OVERVIEW"},
			}

			meta, err := g.SaveSnapshot(ctx, req)
			require.NoError(t, err)
			assert.Equal(t, req.Key, meta.Key)
			assert.Equal(t, int64(len(req.Content)), meta.Size)
			assert.NotEmpty(t, meta.StoragePath)

			snap, err := g.LoadSnapshot(ctx, req.Key)
			require.NoError(t, err)
			assert.Equal(t, req.Content, snap.Content)
			assert.Equal(t, "application/json", snap.Metadata.ContentType)
			assert.Equal(t, "TODAY_OVERVIEW", snap.Metadata.Metadata["scope"])

			// saving again replaces the object
			req.Content = []byte(`{}`)
			_, err = g.SaveSnapshot(ctx, req)
			require.NoError(t, err)
			snap, err = g.LoadSnapshot(ctx, req.Key)
			require.NoError(t, err)
			assert.Equal(t, []byte(`{}`), snap.Content)

			_, err = g.LoadSnapshot(ctx, "glance/missing.json")
			assert.True(t, model.IsNotFound(err), "got %v", err)
		})
	}
}

func TestLocalSnapshotGateway_Layout(t *testing.T) {
	g, fs := newLocal(t)
	ctx := context.Background()

	meta, err := g.SaveSnapshot(ctx, output.SaveSnapshotRequest{Key: "glance/latest.json", Content: []byte("x")})
	require.NoError(t, err)
	want := filepath.Join("/home/snapshots", "glance", "latest.json")
	assert.Equal(t, want, meta.StoragePath)

	exists, err := afero.Exists(fs, want+metaSuffix)
	require.NoError(t, err)
	assert.True(t, exists)

	// no temp files are left behind
	entries, err := afero.ReadDir(fs, filepath.Dir(want))
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	snap, err := g.LoadSnapshot(ctx, "glance/latest.json")
	require.NoError(t, err)
	assert.True(t, uploadTime.Equal(snap.Metadata.UploadedAt))
}

func TestLocalSnapshotGateway_RejectsEscapingKeys(t *testing.T) {
	g, _ := newLocal(t)
	for _, key := range []string{"", "../outside.json", "/etc/passwd", ".."} {
		t.Run(key, func(t *testing.T) {
			_, err := g.SaveSnapshot(context.Background(), output.SaveSnapshotRequest{Key: key, Content: []byte("x")})
			assert.True(t, model.IsValidation(err), "got %v", err)
		})
	}
}

func TestLocalSnapshotGateway_CanceledContext(t *testing.T) {
	g, _ := newLocal(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.SaveSnapshot(ctx, output.SaveSnapshotRequest{Key: "a.json"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestS3SnapshotGateway_KeysAndMetadata(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{"no prefix", "", "widgets/glance/latest.json"},
		{"prefix", "deetask/prod", "widgets/deetask/prod/glance/latest.json"},
		{"slashes trimmed", "/deetask/", "widgets/deetask/glance/latest.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, client := newS3(tt.prefix)
			meta, err := g.SaveSnapshot(context.Background(), output.SaveSnapshotRequest{
				Key:      "glance/latest.json",
				Content:  []byte("{}"),
				Metadata: map[string]string{"date-key": "2026-02-03"},
			})
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, client.Keys())
			assert.Equal(t, "s3://"+tt.want, meta.StoragePath)
		})
	}

	g, client := newS3("p")
	_, err := g.SaveSnapshot(context.Background(), output.SaveSnapshotRequest{Key: "k.json", Content: []byte("{}")})
	require.NoError(t, err)
	obj, ok := client.ObjectForTest("widgets", "p/k.json")
	require.True(t, ok)
	assert.Equal(t, "2026-02-03T09:00:00Z", obj.Metadata[uploadedAtKey])

	snap, err := g.LoadSnapshot(context.Background(), "k.json")
	require.NoError(t, err)
	assert.True(t, uploadTime.Equal(snap.Metadata.UploadedAt))
	assert.NotContains(t, snap.Metadata.Metadata, uploadedAtKey)
}

func TestS3SnapshotGateway_UploadError(t *testing.T) {
	g, client := newS3("")
	client.SetPutError(errors.New("access denied"))

	_, err := g.SaveSnapshot(context.Background(), output.SaveSnapshotRequest{Key: "k.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Zero(t, client.GetObjectCount())
}

func TestMockSnapshotGateway_SaveError(t *testing.T) {
	g := NewMockSnapshotGateway()
	g.SetSaveError(errors.New("boom"))

	_, err := g.SaveSnapshot(context.Background(), output.SaveSnapshotRequest{Key: "k"})
	require.Error(t, err)
	assert.Empty(t, g.Keys())

	g.SetSaveError(nil)
	_, err = g.SaveSnapshot(context.Background(), output.SaveSnapshotRequest{Key: "k"})
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, g.Keys())
	g.Clear()
	assert.Empty(t, g.Keys())
}
