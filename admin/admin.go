/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sabouaram/relay/listener"
	"github.com/sabouaram/relay/runner/startStop"
)

// New builds an admin Server from cfg. It does not bind the listen address
// until Start is called.
func New(cfg Config) (Server, error) {
	if cfg.Bind == "" || cfg.Registerer == nil {
		return nil, ErrorInvalidInstance.Error()
	}

	s := &server{listeners: cfg.Listeners}

	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery())
	e.GET("/healthz", s.healthz)
	e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Registerer, promhttp.HandlerOpts{})))

	s.http = &http.Server{
		Addr:    cfg.Bind,
		Handler: e,
	}
	s.run = startStop.New(s.start, s.stop)

	return s, nil
}

type server struct {
	http      *http.Server
	run       startStop.Runner
	listeners []listener.Listener
}

func (s *server) Start(ctx context.Context) error { return s.run.Start(ctx) }
func (s *server) Stop(ctx context.Context) error  { return s.run.Stop(ctx) }
func (s *server) IsRunning() bool                 { return s.run.IsRunning() }

func (s *server) start(context.Context) error {
	err := s.http.ListenAndServe()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return ErrorListen.Error(err)
}

func (s *server) stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *server) healthz(c *gin.Context) {
	st := Status{Running: true}

	for _, l := range s.listeners {
		if !l.IsRunning() {
			st.Running = false
		}
		st.OpenConnections += l.OpenConnections()
	}

	code := http.StatusOK
	if !st.Running {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, st)
}
