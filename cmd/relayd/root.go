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

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"

	addr "github.com/sabouaram/relay/address"
	"github.com/sabouaram/relay/admin"
	"github.com/sabouaram/relay/config"
	"github.com/sabouaram/relay/handshake"
	"github.com/sabouaram/relay/listener"
	"github.com/sabouaram/relay/metrics"
	"github.com/sabouaram/relay/pipe"
	"github.com/sabouaram/relay/sched"
	"github.com/sabouaram/relay/session"
	"github.com/sabouaram/relay/transport"
)

func newRootCommand() *spfcbr.Command {
	vpr := spfvpr.New()
	vpr.SetEnvPrefix("relayd")
	vpr.AutomaticEnv()

	cmd := &spfcbr.Command{
		Use:           "relayd",
		Short:         "Encrypting/decrypting TCP relay",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *spfcbr.Command, args []string) error {
			return run(cmd.Context(), vpr)
		},
	}

	cmd.PersistentFlags().String("config", "", "path to a config file (yaml, toml, or json)")

	if err := config.RegisterFlags(cmd, vpr); err != nil {
		panic(err)
	}

	return cmd
}

func run(ctx context.Context, vpr *spfvpr.Viper) error {
	if cfgFile := vpr.GetString("config"); cfgFile != "" {
		vpr.SetConfigFile(cfgFile)
		if err := vpr.ReadInConfig(); err != nil {
			return err
		}
	}

	opts, err := config.Load(vpr)
	if err != nil {
		return err
	}

	log := newLogger(opts.LogLevel)

	secret, err := opts.LoadSecret()
	if err != nil {
		return err
	}

	bind, err := config.ParseAddress(opts.Listen)
	if err != nil {
		return err
	}

	targets, err := config.ParseTargets(opts.Targets)
	if err != nil {
		return err
	}

	var targetBind *addr.Address
	if opts.TargetBind != "" {
		tb, err := config.ParseAddress(opts.TargetBind)
		if err != nil {
			return err
		}
		targetBind = &tb
	}

	reg := prometheus.NewRegistry()
	mtr := metrics.New(reg, opts.Listen)

	deps := listener.Deps{
		Dialer:     transport.New(),
		Handshaker: handshake.New(),
		Pipes:      pipe.New(),
		Scheduler:  sched.New(),
	}

	lcfg := listener.Config{
		Bind:          bind,
		Targets:       targets,
		Decr:          opts.Decrypt,
		NoPFS:         opts.NoPFS,
		RequirePFS:    opts.RequirePFS,
		NoKeepalive:   opts.NoKeepalive,
		Secret:        secret,
		Timeout:       time.Duration(opts.Timeout) * time.Second,
		MaxHandshakes: opts.MaxHandshakes,
		Metrics:       mtr,
		OnSessionDone: func(reason session.Reason, _ int, read int64, written int64) {
			log.WithFields(logrus.Fields{
				"reason":  reason.String(),
				"read":    metrics.Size(read),
				"written": metrics.Size(written),
			}).Info("session closed")
		},
	}
	if targetBind != nil {
		lcfg.TargetBind = targetBind
	}

	l, err := listener.New(deps, lcfg)
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := l.Start(runCtx); err != nil {
		return err
	}
	log.WithField("listen", opts.Listen).Info("relay listening")

	var adm admin.Server
	if opts.AdminListen != "" {
		adm, err = admin.New(admin.Config{
			Bind:       opts.AdminListen,
			Registerer: reg,
			Listeners:  []listener.Listener{l},
		})
		if err != nil {
			return err
		}
		if err := adm.Start(runCtx); err != nil {
			return err
		}
		log.WithField("listen", opts.AdminListen).Info("admin surface listening")
	}

	<-runCtx.Done()
	log.Info("shutting down")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()

	_ = l.Stop(stopCtx)
	if adm != nil {
		_ = adm.Stop(stopCtx)
	}

	return nil
}

func newLogger(level string) *logrus.Entry {
	l := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return logrus.NewEntry(l)
}
