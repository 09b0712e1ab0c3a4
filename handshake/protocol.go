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

package handshake

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"net"
	"time"

	hcversion "github.com/hashicorp/go-version"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// wireVersion is this build's protocol version, negotiated against the
// peer's with a minimum-compatible-version check so the wire format can
// evolve across releases without breaking old peers outright — the
// original fixes a single protocol byte; this is the supplemented,
// negotiable equivalent.
const wireVersion = "1.0.0"

// minCompatibleVersion is the oldest peer version this build still
// interoperates with.
const minCompatibleVersion = "1.0.0"

const flagNoPFS = byte(1 << 0)

type hello struct {
	version string
	nonce   [32]byte
	nopfs   bool
	pub     [32]byte
}

type protocol struct{}

func (protocol) Handshake(ctx context.Context, conn net.Conn, decr, nopfs, requirepfs bool, secret [32]byte) (KeyMaterial, bool) {
	stop := watchContext(ctx, conn)
	defer stop()

	local, priv, err := buildHello(nopfs)
	if err != nil {
		return KeyMaterial{}, false
	}

	// Each write runs beside the matching read, so two peers that both send
	// first cannot block each other on an unbuffered connection.
	werr := make(chan error, 1)
	go func() { werr <- writeHello(conn, local) }()

	peer, err := readHello(conn)
	if err != nil {
		return KeyMaterial{}, false
	}
	if err = <-werr; err != nil {
		return KeyMaterial{}, false
	}

	if !versionCompatible(peer.version) {
		return KeyMaterial{}, false
	}

	if requirepfs && peer.nopfs {
		return KeyMaterial{}, false
	}

	pfsActive := !nopfs && !peer.nopfs

	role := localRole(local.nonce, peer.nonce)

	localMAC := authTag(secret, role, local.nonce, peer.nonce)
	go func() {
		_, e := conn.Write(localMAC)
		werr <- e
	}()

	peerMAC := make([]byte, sha256.Size)
	if _, err = io.ReadFull(conn, peerMAC); err != nil {
		return KeyMaterial{}, false
	}
	if err = <-werr; err != nil {
		return KeyMaterial{}, false
	}

	expectedPeerMAC := authTag(secret, role^1, peer.nonce, local.nonce)
	if !hmac.Equal(peerMAC, expectedPeerMAC) {
		return KeyMaterial{}, false
	}

	var shared []byte
	if pfsActive {
		if shared, err = curve25519.X25519(priv, peer.pub[:]); err != nil {
			return KeyMaterial{}, false
		}
	}

	return deriveKeys(secret, shared, local.nonce, peer.nonce), true
}

func buildHello(nopfs bool) (hello, []byte, error) {
	var (
		h    hello
		priv []byte
	)

	h.version = wireVersion
	h.nopfs = nopfs

	if _, err := io.ReadFull(rand.Reader, h.nonce[:]); err != nil {
		return h, nil, err
	}

	if !nopfs {
		priv = make([]byte, curve25519.ScalarSize)
		if _, err := io.ReadFull(rand.Reader, priv); err != nil {
			return h, nil, err
		}

		pub, err := curve25519.X25519(priv, curve25519.Basepoint)
		if err != nil {
			return h, nil, err
		}
		copy(h.pub[:], pub)
	}

	return h, priv, nil
}

func writeHello(w io.Writer, h hello) error {
	buf := new(bytes.Buffer)

	vlen := make([]byte, 2)
	binary.BigEndian.PutUint16(vlen, uint16(len(h.version)))

	buf.Write(vlen)
	buf.WriteString(h.version)
	buf.Write(h.nonce[:])

	flags := byte(0)
	if h.nopfs {
		flags |= flagNoPFS
	}
	buf.WriteByte(flags)
	buf.Write(h.pub[:])

	_, err := w.Write(buf.Bytes())
	return err
}

func readHello(r io.Reader) (hello, error) {
	var h hello

	vlen := make([]byte, 2)
	if _, err := io.ReadFull(r, vlen); err != nil {
		return h, err
	}

	n := binary.BigEndian.Uint16(vlen)
	if n == 0 || n > 64 {
		return h, ErrorMalformedHello.Error()
	}

	vbuf := make([]byte, n)
	if _, err := io.ReadFull(r, vbuf); err != nil {
		return h, err
	}
	h.version = string(vbuf)

	if _, err := io.ReadFull(r, h.nonce[:]); err != nil {
		return h, err
	}

	flags := make([]byte, 1)
	if _, err := io.ReadFull(r, flags); err != nil {
		return h, err
	}
	h.nopfs = flags[0]&flagNoPFS != 0

	if _, err := io.ReadFull(r, h.pub[:]); err != nil {
		return h, err
	}

	return h, nil
}

func versionCompatible(peer string) bool {
	pv, err := hcversion.NewVersion(peer)
	if err != nil {
		return false
	}

	min, err := hcversion.NewVersion(minCompatibleVersion)
	if err != nil {
		return false
	}

	return pv.GreaterThanOrEqual(min)
}

// localRole returns 0 or 1 depending on how the two nonces order, giving
// both peers a consistent, reflection-resistant role bit without needing
// to exchange one: each side authenticates with its own role and verifies
// the peer under the complementary role.
func localRole(local, peer [32]byte) byte {
	if bytes.Compare(local[:], peer[:]) < 0 {
		return 0
	}
	return 1
}

func authTag(secret [32]byte, role byte, a, b [32]byte) []byte {
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte{role})
	mac.Write(a[:])
	mac.Write(b[:])
	return mac.Sum(nil)
}

// deriveKeys derives the forward and reverse key/nonce pairs from a
// transcript both peers compute identically: the shared secret (and, when
// PFS is active, the X25519 result), salted by the two nonces in a fixed
// lexicographic order so both sides land on the same salt regardless of
// who is "local" and who is "peer".
func deriveKeys(secret [32]byte, shared []byte, local, peer [32]byte) KeyMaterial {
	ikm := append(append([]byte{}, secret[:]...), shared...)

	salt := make([]byte, 0, 64)
	if bytes.Compare(local[:], peer[:]) < 0 {
		salt = append(salt, local[:]...)
		salt = append(salt, peer[:]...)
	} else {
		salt = append(salt, peer[:]...)
		salt = append(salt, local[:]...)
	}

	var km KeyMaterial

	fwd := hkdf.New(sha256.New, ikm, salt, []byte("relay forward"))
	_, _ = io.ReadFull(fwd, km.Forward[:])
	_, _ = io.ReadFull(fwd, km.ForwardNonce[:])

	rev := hkdf.New(sha256.New, ikm, salt, []byte("relay reverse"))
	_, _ = io.ReadFull(rev, km.Reverse[:])
	_, _ = io.ReadFull(rev, km.ReverseNonce[:])

	return km
}

// watchContext arranges for conn's pending/future I/O to unblock with an
// error when ctx is done, since net.Conn has no native context awareness.
func watchContext(ctx context.Context, conn net.Conn) (stop func()) {
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.SetDeadline(time.Unix(0, 1))
		case <-done:
		}
	}()

	return func() { close(done) }
}
