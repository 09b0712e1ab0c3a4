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

// Package config binds relayd's settings from flags, a config file, and
// environment variables into one validated Options struct, the way the
// teacher's logger/config.Options binds logging settings: mapstructure tags
// for viper, struct tags for go-playground/validator, a cobra flag set
// bound back into the same viper instance.
package config

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"

	liberr "github.com/sabouaram/relay/errors"
)

// Options is relayd's full configuration: one bound listen address relaying
// to one or more targets.
type Options struct {
	// Listen is the "host:port" or "/path/to.sock" address to accept
	// connections on.
	Listen string `json:"listen" yaml:"listen" toml:"listen" mapstructure:"listen" validate:"required"`

	// Targets is the candidate address list to dial for each accepted
	// connection, tried in order.
	Targets []string `json:"targets" yaml:"targets" toml:"targets" mapstructure:"targets" validate:"required,min=1,dive,required"`

	// TargetBind, if set, is the local address to bind before dialing out.
	TargetBind string `json:"targetBind,omitempty" yaml:"targetBind,omitempty" toml:"targetBind,omitempty" mapstructure:"targetBind,omitempty"`

	// Decrypt is true when this instance's Listen side carries ciphertext.
	Decrypt bool `json:"decrypt" yaml:"decrypt" toml:"decrypt" mapstructure:"decrypt"`

	NoPFS       bool `json:"noPfs" yaml:"noPfs" toml:"noPfs" mapstructure:"noPfs"`
	RequirePFS  bool `json:"requirePfs" yaml:"requirePfs" toml:"requirePfs" mapstructure:"requirePfs"`
	NoKeepalive bool `json:"noKeepalive" yaml:"noKeepalive" toml:"noKeepalive" mapstructure:"noKeepalive"`

	// SecretFile is a path to a file holding the hex-encoded 32-byte shared
	// secret. The secret is never accepted on the command line directly.
	SecretFile string `json:"secretFile" yaml:"secretFile" toml:"secretFile" mapstructure:"secretFile" validate:"required"`

	// Timeout bounds a session's dial and handshake, in seconds.
	Timeout int `json:"timeout" yaml:"timeout" toml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// MaxHandshakes bounds the number of dial+handshake pairs running at
	// once. Zero or negative means unbounded.
	MaxHandshakes int64 `json:"maxHandshakes" yaml:"maxHandshakes" toml:"maxHandshakes" mapstructure:"maxHandshakes"`

	// LogLevel is the minimum severity logged, e.g. "info" or "debug".
	LogLevel string `json:"logLevel" yaml:"logLevel" toml:"logLevel" mapstructure:"logLevel" validate:"required"`

	// AdminListen, if non-empty, is the "host:port" the admin HTTP surface
	// binds to. Empty disables the admin surface.
	AdminListen string `json:"adminListen,omitempty" yaml:"adminListen,omitempty" toml:"adminListen,omitempty" mapstructure:"adminListen,omitempty"`
}

// Validate checks o against its struct tags, exactly the way the teacher's
// logger/config.Options.Validate does: run go-playground/validator, then
// translate every ValidationErrors entry into one liberr.Error.
func (o *Options) Validate() liberr.Error {
	e := ErrorValidation.Error(nil)

	if err := libval.New().Struct(o); err != nil {
		if er, ok := err.(*libval.InvalidValidationError); ok {
			e.Add(er)
		} else {
			for _, er := range err.(libval.ValidationErrors) {
				//nolint #goerr113
				e.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", er.Namespace(), er.ActualTag()))
			}
		}
	}

	if !e.HasParent() {
		e = nil
	}

	return e
}
