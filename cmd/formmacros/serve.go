package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	gmext "github.com/yuin/goldmark/extension"

	"github.com/goliatone/go-formmacros"
	"github.com/goliatone/go-formmacros/pkg/extension"
	"github.com/goliatone/go-formmacros/pkg/forms"
	"github.com/goliatone/go-formmacros/pkg/macros"
	"github.com/goliatone/go-formmacros/pkg/render/template/gotemplate"
)

func serveCommand(a *app) *cobra.Command {
	var (
		addr      string
		dir       string
		formsPath string
		ext       string
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves templates for previewing forms in a browser",
		Long: `Serves every template below --dir with the form macros installed.
Templates are reloaded when they change on disk; form definitions are read
again on every request.

For example:
formmacros serve --dir views --forms forms --addr ":8080"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			extn, err := a.extension()
			if err != nil {
				return err
			}
			engine, err := extn.Engine(gotemplate.WithBaseDir(dir), gotemplate.WithExtension(ext))
			if err != nil {
				return err
			}

			watcher, err := watchTemplates(dir, a.logger, engine.Invalidate)
			if err != nil {
				return fmt.Errorf("watch templates: %w", err)
			}
			defer watcher.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := &http.Server{
				Addr:              addr,
				Handler:           newPreviewHandler(a.logger, extn, engine, formsPath),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				<-ctx.Done()
				shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdown)
			}()

			a.logger.WithFields(log.Fields{"addr": addr, "dir": dir}).Info("serving form previews")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "Host and port as defined by http.ListenAndServe()")
	serveCmd.Flags().StringVar(&dir, "dir", ".", "template directory")
	serveCmd.Flags().StringVar(&formsPath, "forms", "", "form definitions file or directory")
	serveCmd.Flags().StringVar(&ext, "ext", ".tpl", "template file extension")
	return serveCmd
}

var markdown = goldmark.New(goldmark.WithExtensions(gmext.Table))

type previewHandler struct {
	logger    log.FieldLogger
	ext       *extension.Extension
	engine    *gotemplate.Engine
	formsPath string
}

func newPreviewHandler(logger log.FieldLogger, ext *extension.Extension, engine *gotemplate.Engine, formsPath string) http.Handler {
	h := &previewHandler{logger: logger, ext: ext, engine: engine, formsPath: formsPath}

	router := mux.NewRouter()
	router.HandleFunc("/_macros", h.macros).Methods(http.MethodGet)
	router.HandleFunc("/{name:.+}", h.template).Methods(http.MethodGet)
	return router
}

func (h *previewHandler) template(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	logger := h.logger.WithField("template", name)

	loaded, err := loadForms(h.formsPath)
	if err != nil {
		logger.WithError(err).Error("load forms")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	host := forms.NewContainer(forms.HostName)
	data := map[string]any{}
	for _, form := range loaded {
		if err := host.Add(form); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data[form.ComponentName()] = form
	}
	if err := h.ext.PrepareHost(host); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			data[key] = values[0]
		}
	}
	data[formmacros.HostBinding] = host

	var buf bytes.Buffer
	if _, err := h.engine.RenderTemplate(name, data, &buf); err != nil {
		logger.WithError(err).Error("render template")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// macros serves the tag reference rendered from Markdown.
func (h *previewHandler) macros(w http.ResponseWriter, _ *http.Request) {
	var source strings.Builder
	source.WriteString("# Form macros\n\n| Tag | Syntax | Emits |\n|---|---|---|\n")
	for _, tag := range macros.Tags() {
		fmt.Fprintf(&source, "| %s | `%s` | %s |\n", tag.Name, strings.ReplaceAll(tag.Syntax, "|", `\|`), tag.Emits)
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source.String()), &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
