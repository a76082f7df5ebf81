/*
 * checkpoint.go, part of gopot.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package checkpoint contains the diagnostic aids of the potential generation: content hashes of
fields at fixed points of a generation pass, and compressed snapshots of them.

A snapshot is a zstd-compressed text file. It starts with a header of key=value lines, followed by
a line "** N" with the number of values, and N lines with the real and imaginary parts of each value.*/
package checkpoint

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

//HashFloat64 returns the xxhash of the bit patterns of x.
func HashFloat64(x []float64) uint64 {
	h := xxhash.New()
	var b [8]byte
	for _, v := range x {
		binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
		h.Write(b[:])
	}
	return h.Sum64()
}

//HashComplex returns the xxhash of the bit patterns of the real and imaginary parts of x.
func HashComplex(x []complex128) uint64 {
	h := xxhash.New()
	var b [16]byte
	for _, v := range x {
		binary.LittleEndian.PutUint64(b[:8], math.Float64bits(real(v)))
		binary.LittleEndian.PutUint64(b[8:], math.Float64bits(imag(v)))
		h.Write(b[:])
	}
	return h.Sum64()
}

//Snapshot is the content of a snapshot file.
type Snapshot struct {
	Label  string
	Header map[string]string
	Values []complex128
}

//Writer writes numbered snapshots to a directory.
type Writer struct {
	dir   string
	count int
}

//NewWriter returns a writer for the directory dir, which is created if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, Error{err.Error(), dir, []string{"NewWriter"}, true}
	}
	return &Writer{dir: dir}, nil
}

//Dir returns the directory of the writer.
func (W *Writer) Dir() string { return W.dir }

//Write writes s to the next snapshot file of the directory and returns its name.
func (W *Writer) Write(s *Snapshot) (string, error) {
	name := filepath.Join(W.dir, fmt.Sprintf("%03d-%s.ckp.zst", W.count, sanitize(s.Label)))
	W.count++
	f, err := os.Create(name)
	if err != nil {
		return "", Error{err.Error(), name, []string{"Write"}, true}
	}
	defer f.Close()
	z, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return "", Error{"can't start compression " + err.Error(), name, []string{"Write"}, true}
	}
	if err := encode(z, s); err != nil {
		z.Close()
		return "", Error{err.Error(), name, []string{"Write"}, true}
	}
	if err := z.Close(); err != nil {
		return "", Error{err.Error(), name, []string{"Write"}, true}
	}
	return name, nil
}

func sanitize(label string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, label)
}

func encode(w io.Writer, s *Snapshot) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "label=%s\n", s.Label)
	keys := make([]string, 0, len(s.Header))
	for k := range s.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s=%s\n", k, s.Header[k])
	}
	fmt.Fprintf(b, "** %d\n", len(s.Values))
	for _, v := range s.Values {
		b.WriteString(strconv.FormatFloat(real(v), 'g', -1, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(imag(v), 'g', -1, 64))
		b.WriteByte('\n')
	}
	return b.Flush()
}

//Read reads the snapshot in the file name.
func Read(name string) (*Snapshot, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"Read"}, true}
	}
	defer f.Close()
	z, err := zstd.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, Error{"can't read compressed data " + err.Error(), name, []string{"Read"}, true}
	}
	defer z.Close()
	s := &Snapshot{Header: make(map[string]string)}
	r := bufio.NewScanner(z)
	n := -1
	for r.Scan() {
		line := r.Text()
		if strings.HasPrefix(line, "** ") {
			n, err = strconv.Atoi(strings.TrimSpace(line[3:]))
			if err != nil {
				return nil, Error{"bad value count: " + line, name, []string{"Read"}, true}
			}
			break
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return nil, Error{"bad header line: " + line, name, []string{"Read"}, true}
		}
		if k == "label" {
			s.Label = v
			continue
		}
		s.Header[k] = v
	}
	if n < 0 {
		return nil, Error{"no value count in file", name, []string{"Read"}, true}
	}
	s.Values = make([]complex128, 0, n)
	for r.Scan() {
		fields := strings.Fields(r.Text())
		if len(fields) != 2 {
			return nil, Error{"bad value line: " + r.Text(), name, []string{"Read"}, true}
		}
		re, err1 := strconv.ParseFloat(fields[0], 64)
		im, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			return nil, Error{"bad value line: " + r.Text(), name, []string{"Read"}, true}
		}
		s.Values = append(s.Values, complex(re, im))
	}
	if err := r.Err(); err != nil {
		return nil, Error{err.Error(), name, []string{"Read"}, true}
	}
	if len(s.Values) != n {
		return nil, Error{fmt.Sprintf("%d values read, %d expected", len(s.Values), n), name, []string{"Read"}, true}
	}
	return s, nil
}

//Error is the error type of the package.
type Error struct {
	message  string
	filename string //the file with problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("checkpoint file %s error: %s", err.filename, err.message)
}

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the file associated to the error
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }
