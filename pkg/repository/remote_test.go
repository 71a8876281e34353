package repository_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/docdesk/pkg/domain/interfaces"
	"github.com/secmon-lab/docdesk/pkg/repository/memory"
	"github.com/secmon-lab/docdesk/pkg/service/remote"
	"github.com/secmon-lab/docdesk/pkg/service/remote/remotetest"
)

// backend is a remote under test plus the memory store seeding it
type backend struct {
	remote interfaces.Remote
	store  *memory.Remote
}

type newBackend func(t *testing.T) backend

func newMemoryBackend(t *testing.T) backend {
	store := memory.New()
	return backend{remote: store, store: store}
}

func newHTTPBackend(t *testing.T) backend {
	t.Helper()
	store := memory.New()
	srv := remotetest.NewServer(store)
	t.Cleanup(srv.Close)

	client, err := remote.New(srv.URL)
	gt.NoError(t, err).Required()
	return backend{remote: client, store: store}
}

func runAll(t *testing.T, run func(t *testing.T, newBackend newBackend)) {
	t.Run("memory", func(t *testing.T) {
		run(t, newMemoryBackend)
	})
	t.Run("http", func(t *testing.T) {
		run(t, newHTTPBackend)
	})
}
