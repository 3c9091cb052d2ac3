package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/petasbytes/simplemath/internal/animation"
	"github.com/petasbytes/simplemath/internal/fsops"
	"github.com/petasbytes/simplemath/internal/kvstore"
	"github.com/petasbytes/simplemath/internal/orchestrator"
	"github.com/petasbytes/simplemath/internal/provider"
	"github.com/petasbytes/simplemath/internal/settings"
	"github.com/petasbytes/simplemath/memory"
)

var errNotConfigured = errors.New("no API key configured; run `simplemath settings set apiKey <key>` or export OPENAI_API_KEY")

// app is the wired set of stores and clients shared by the commands.
type app struct {
	kv            kvstore.Store
	conversations *memory.Store
	settings      *settings.Store
	client        provider.Client
	animations    *animation.LocalCreator
}

// open wires the app once per process.
func (o *rootOptions) open() (*app, error) {
	if o.app != nil {
		return o.app, nil
	}
	if o.storage != kvstore.BackendMemory {
		if err := os.MkdirAll(o.dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	kv, err := kvstore.Open(o.storage, o.dataDir)
	if err != nil {
		return nil, err
	}

	base := settings.Defaults()
	if o.configPath != "" {
		if base, err = settings.LoadFile(o.configPath, base); err != nil {
			_ = kv.Close()
			return nil, err
		}
	}
	st := settings.NewStore(kv, base)
	if err := st.Load(); err != nil {
		_ = kv.Close()
		return nil, err
	}

	conversations := memory.NewStore(kv)
	if err := conversations.Load(); err != nil {
		log.WithError(err).Debug("conversations reset")
	}

	sandbox, err := fsops.New(filepath.Join(o.dataDir, "animations"))
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	var client provider.Client
	if o.newClient != nil {
		client = o.newClient(st)
	} else {
		client = provider.New(st)
	}

	o.app = &app{
		kv:            kv,
		conversations: conversations,
		settings:      st,
		client:        client,
		animations:    &animation.LocalCreator{Registry: animation.NewRegistry(), Sandbox: sandbox},
	}
	log.WithFields(log.Fields{"storage": o.storage, "dir": o.dataDir}).Debug("app opened")
	return o.app, nil
}

func (o *rootOptions) close() {
	if o.app == nil {
		return
	}
	if err := o.app.kv.Close(); err != nil {
		log.WithError(err).Warn("failed to close storage")
	}
	o.app = nil
}

func (a *app) orchestrator(opts orchestrator.Options) *orchestrator.Orchestrator {
	opts.Animations = a.animations
	opts.Settings = a.settings
	return orchestrator.New(a.client, a.conversations, opts)
}

func (a *app) requireConfigured() error {
	if !a.settings.Current().IsConfigured() {
		return errNotConfigured
	}
	return nil
}
