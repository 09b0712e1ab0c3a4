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

// Package address implements the immutable socket-address value used to
// describe relay listen and target endpoints: equality, deep copy,
// serialize/deserialize for intra-host handoff, human pretty-printing, and
// the "ensure :port" lexical normalization applied to user-supplied strings.
package address

// Family identifies the socket address family of an Address.
type Family uint8

const (
	FamilyUnknown Family = iota
	FamilyUnix
	FamilyIPv4
	FamilyIPv6
)

// SockType identifies the socket type of an Address. The relay only ever
// dials/listens on stream sockets, but the value is carried through the
// codec verbatim since it is part of the wire-compatible record.
type SockType uint8

const (
	SockTypeUnknown SockType = iota
	SockTypeStream
	SockTypeDatagram
)

// Address is an immutable value describing one dial/listen endpoint.
//
// It mirrors the { family, socket_type, raw_name_bytes } record: a UNIX
// family carries a path in Name, an IPv4/IPv6 family carries "host:port" (or
// "[host]:port") in Name.
type Address struct {
	family Family
	stype  SockType
	name   []byte
}

// New builds an Address from its three components. The name bytes are
// copied so the returned value never aliases the caller's slice.
func New(family Family, stype SockType, name []byte) Address {
	n := make([]byte, len(name))
	copy(n, name)

	return Address{
		family: family,
		stype:  stype,
		name:   n,
	}
}

func (a Address) Family() Family     { return a.family }
func (a Address) SockType() SockType { return a.stype }

// Name returns the raw name bytes. The returned slice is a copy; mutating
// it never affects the Address value.
func (a Address) Name() []byte {
	n := make([]byte, len(a.name))
	copy(n, a.name)
	return n
}

// NameString returns the name bytes decoded as a string (the common case:
// a UNIX path or a "host:port" pair).
func (a Address) NameString() string {
	return string(a.name)
}

// IsZero reports whether a is the zero-value Address (no family set, no
// name bytes) — the state a deserialize failure or an empty list lookup
// should be compared against.
func (a Address) IsZero() bool {
	return a.family == FamilyUnknown && a.stype == SockTypeUnknown && len(a.name) == 0
}

// Equal reports componentwise equality over family, socket type, and the
// raw name bytes — exactly the definition the codec round-trip relies on.
func Equal(a, b Address) bool {
	if a.family != b.family || a.stype != b.stype {
		return false
	}

	if len(a.name) != len(b.name) {
		return false
	}

	for i := range a.name {
		if a.name[i] != b.name[i] {
			return false
		}
	}

	return true
}

// Clone returns a deep copy of a: the name buffer is duplicated so the
// clone never aliases the original.
func Clone(a Address) Address {
	return New(a.family, a.stype, a.name)
}

// List is a finite, ordered sequence of addresses. Iteration order is the
// dial preference order: a caller tries entries in List order until one
// succeeds or the list is exhausted.
type List []Address

// CloneList preserves list length and order. Because Go's garbage collector
// reclaims the per-element copies automatically, there is no partial-failure
// rollback path to write here (the source's "release what was cloned so far
// on failure" step degenerates to nothing left to leak); Clone itself cannot
// fail, so CloneList cannot fail either.
func CloneList(list List) List {
	out := make(List, len(list))
	for i, a := range list {
		out[i] = Clone(a)
	}
	return out
}
