package telegram

import (
	"context"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"keypoint-extractor/internal/domain/entity"
)

type sentFile struct {
	method  string
	chatID  string
	caption string
	name    string
	body    string
}

type fakeTelegram struct {
	mu     sync.Mutex
	sent   []sentFile
	failOn string
}

func (f *fakeTelegram) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		method := parts[len(parts)-1]
		w.Header().Set("Content-Type", "application/json")

		switch method {
		case "getMe":
			io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"kp","username":"kp_bot"}}`)
			return
		case "sendPhoto", "sendDocument":
		default:
			t.Errorf("unexpected method %s", method)
			w.WriteHeader(http.StatusNotFound)
			return
		}

		if method == f.failOn {
			io.Copy(io.Discard, r.Body)
			io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
			return
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		field := "photo"
		if method == "sendDocument" {
			field = "document"
		}
		file, header, err := r.FormFile(field)
		if err != nil {
			t.Errorf("form file %s: %v", field, err)
			return
		}
		body, _ := io.ReadAll(file)
		file.Close()

		f.mu.Lock()
		f.sent = append(f.sent, sentFile{
			method:  method,
			chatID:  r.FormValue("chat_id"),
			caption: r.FormValue("caption"),
			name:    header.Filename,
			body:    string(body),
		})
		f.mu.Unlock()

		io.WriteString(w, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`)
	}
}

func newTestNotifier(t *testing.T, fake *fakeTelegram) *Notifier {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	n, err := ConnectWithClient("test-token", srv.URL+"/bot%s/%s", srv.Client(), 42)
	require.NoError(t, err)
	return n
}

func artifacts(t *testing.T) *entity.Artifacts {
	t.Helper()
	dir := t.TempDir()
	art := &entity.Artifacts{
		PreviewPath: filepath.Join(dir, "cat_keypoints_20261017_090507.png"),
		CSVPath:     filepath.Join(dir, "cat_keypoints_20261017_090507.csv"),
	}
	require.NoError(t, os.WriteFile(art.PreviewPath, []byte("png-bytes"), 0o644))
	require.NoError(t, os.WriteFile(art.CSVPath, []byte("x,y\n1,2\n"), 0o644))
	return art
}

func TestNotifier_SendsPreviewAndCSV(t *testing.T) {
	fake := &fakeTelegram{}
	n := newTestNotifier(t, fake)

	err := n.Notify(context.Background(), entity.FileResult{
		Path:      "imgs/cat.png",
		Keypoints: []image.Point{{1, 2}, {30, 40}},
		Artifacts: artifacts(t),
	})
	require.NoError(t, err)

	require.Len(t, fake.sent, 2)
	require.Equal(t, "sendPhoto", fake.sent[0].method)
	require.Equal(t, "42", fake.sent[0].chatID)
	require.Equal(t, "cat_keypoints_20261017_090507.png", fake.sent[0].name)
	require.Equal(t, "png-bytes", fake.sent[0].body)
	require.Contains(t, fake.sent[0].caption, "cat.png: 2 точек")
	require.Contains(t, fake.sent[0].caption, "(1, 2) (30, 40)")

	require.Equal(t, "sendDocument", fake.sent[1].method)
	require.Equal(t, "x,y\n1,2\n", fake.sent[1].body)
}

func TestNotifier_SkipsFailedResults(t *testing.T) {
	fake := &fakeTelegram{}
	n := newTestNotifier(t, fake)

	err := n.Notify(context.Background(), entity.FileResult{Path: "bad.png", Err: entity.ErrDecode})
	require.NoError(t, err)
	require.Empty(t, fake.sent)
}

func TestNotifier_APIError(t *testing.T) {
	fake := &fakeTelegram{failOn: "sendPhoto"}
	n := newTestNotifier(t, fake)

	err := n.Notify(context.Background(), entity.FileResult{
		Path:      "imgs/cat.png",
		Keypoints: []image.Point{{1, 2}},
		Artifacts: artifacts(t),
	})
	require.ErrorContains(t, err, "chat not found")
	require.Empty(t, fake.sent)
}

func TestNotifier_CancelledContext(t *testing.T) {
	fake := &fakeTelegram{}
	n := newTestNotifier(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Notify(ctx, entity.FileResult{Path: "a.png", Artifacts: artifacts(t)})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, fake.sent)
}

func TestCaption(t *testing.T) {
	got := caption(entity.FileResult{Path: "x/y/dog.jpg", Keypoints: []image.Point{{3, 4}}})
	require.Equal(t, "📍 dog.jpg: 1 точек\n(3, 4)", got)
}
