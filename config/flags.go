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

package config

import (
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"
)

// RegisterFlags declares relayd's flag set on cmd and binds every flag back
// into vpr, following the same Command.PersistentFlags()+vpr.BindPFlag pair
// the teacher's component config layers use.
func RegisterFlags(cmd *spfcbr.Command, vpr *spfvpr.Viper) error {
	fs := cmd.PersistentFlags()

	fs.String("listen", "", "address to accept connections on (host:port or /path.sock)")
	fs.StringArray("target", nil, "target address to relay to (repeatable, tried in order)")
	fs.String("target-bind", "", "local address to bind before dialing a target")
	fs.Bool("decrypt", false, "this instance's listen side carries ciphertext")
	fs.Bool("no-pfs", false, "skip the ephemeral Diffie-Hellman exchange")
	fs.Bool("require-pfs", false, "abort the handshake if the peer requests no forward secrecy")
	fs.Bool("no-keepalive", false, "disable TCP keepalive on relayed sockets")
	fs.String("secret-file", "", "path to the hex-encoded 32-byte shared secret")
	fs.Int("timeout", 5, "seconds to bound a session's dial and handshake")
	fs.Int64("max-handshakes", 0, "bound on concurrent dial+handshake pairs (0 = unbounded)")
	fs.String("log-level", "info", "minimum logged severity")
	fs.String("admin-listen", "", "address for the admin HTTP surface (empty disables it)")

	// viper keys follow Options' mapstructure tags, not the dashed flag
	// names cobra/POSIX convention expects on the command line.
	keys := map[string]string{
		"listen":         "listen",
		"target":         "targets",
		"target-bind":    "targetBind",
		"decrypt":        "decrypt",
		"no-pfs":         "noPfs",
		"require-pfs":    "requirePfs",
		"no-keepalive":   "noKeepalive",
		"secret-file":    "secretFile",
		"timeout":        "timeout",
		"max-handshakes": "maxHandshakes",
		"log-level":      "logLevel",
		"admin-listen":   "adminListen",
	}

	for flag, key := range keys {
		if err := vpr.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return err
		}
	}

	return nil
}

// Load unmarshals vpr's bound settings into an Options value and validates
// it.
func Load(vpr *spfvpr.Viper) (*Options, error) {
	var o Options

	if err := vpr.Unmarshal(&o); err != nil {
		return nil, err
	}

	if err := o.Validate(); err != nil {
		return nil, err
	}

	return &o, nil
}
