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

package pipe

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sabouaram/relay/crypt"
)

// maxPlaintext bounds how much plaintext one frame carries. Kept small so
// a slow peer on one side of the relay cannot stall the other side on a
// single oversized read/write.
const maxPlaintext = 1024

// maxCiphertext is the largest frame Launch accepts from the wire: plaintext
// bound plus the GCM tag, with headroom for future AEAD overhead.
const maxCiphertext = maxPlaintext + 64

const frameHeaderLen = 4

type launcher struct{}

type handle struct {
	cancel context.CancelFunc
	once   sync.Once
}

func (h *handle) Cancel() {
	h.once.Do(h.cancel)
}

func (launcher) Launch(ctx context.Context, src, dst net.Conn, key [32]byte, nonce [12]byte, decrypt bool, onStatus StatusFunc) Handle {
	pctx, cancel := context.WithCancel(ctx)
	h := &handle{cancel: cancel}

	go pump(pctx, src, dst, key, nonce, decrypt, onStatus)

	return h
}

func pump(ctx context.Context, src, dst net.Conn, key [32]byte, nonce [12]byte, decrypt bool, onStatus StatusFunc) {
	stop := watchContext(ctx, src)
	defer stop()

	onStatus(StatusRunning)

	var (
		seq uint64
		err error
	)

	if decrypt {
		err = pumpDecrypt(src, dst, key, nonce, &seq)
	} else {
		err = pumpEncrypt(src, dst, key, nonce, &seq)
	}

	if err == io.EOF {
		onStatus(StatusClosed)
		return
	}
	if err != nil {
		onStatus(StatusError)
		return
	}
	onStatus(StatusClosed)
}

func pumpDecrypt(src, dst net.Conn, key [32]byte, nonce [12]byte, seq *uint64) error {
	for {
		frame, err := readFrame(src)
		if err != nil {
			return err
		}

		eng, err := crypt.New(key, crypt.DeriveNonce(nonce, *seq))
		if err != nil {
			return ErrorDecrypt.Error(err)
		}

		plain, err := eng.Decode(frame)
		if err != nil {
			return ErrorDecrypt.Error(err)
		}

		if _, err = dst.Write(plain); err != nil {
			return err
		}

		*seq++
	}
}

func pumpEncrypt(src, dst net.Conn, key [32]byte, nonce [12]byte, seq *uint64) error {
	buf := make([]byte, maxPlaintext)

	for {
		n, err := src.Read(buf)
		if n > 0 {
			eng, eerr := crypt.New(key, crypt.DeriveNonce(nonce, *seq))
			if eerr != nil {
				return ErrorEncrypt.Error(eerr)
			}

			cipherText := eng.Encode(buf[:n])
			if werr := writeFrame(dst, cipherText); werr != nil {
				return werr
			}

			*seq++
		}

		if err != nil {
			return err
		}
	}
}

func readFrame(r io.Reader) ([]byte, error) {
	hdr := make([]byte, frameHeaderLen)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, err
	}

	n := binary.BigEndian.Uint32(hdr)
	if n == 0 || n > maxCiphertext {
		return nil, ErrorFrameTooLarge.Error()
	}

	frame := make([]byte, n)
	if _, err := io.ReadFull(r, frame); err != nil {
		return nil, err
	}

	return frame, nil
}

func writeFrame(w io.Writer, frame []byte) error {
	hdr := make([]byte, frameHeaderLen)
	binary.BigEndian.PutUint32(hdr, uint32(len(frame)))

	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err := w.Write(frame)
	return err
}

// watchContext unblocks a pending/future read on conn when ctx is done.
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
