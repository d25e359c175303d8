/*
 * file.go, part of orbplot.
 *
 * Copyright 2021 Raul Mera <rauldotmeraatusachdotcl>
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

package cube

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	v3 "github.com/rmera/orbplot/v3"
)

//Compression returns the compression implied by the name of a file:
//"zst", "gz" or "" for none.
func Compression(name string) string {
	lname := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lname, ".zst"):
		return "zst"
	case strings.HasSuffix(lname, ".gz"):
		return "gz"
	}
	return ""
}

//nopCloser turns a writer that doesn't need closing into an io.WriteCloser
type nopCloser struct {
	io.Writer
}

func (n nopCloser) Close() error { return nil }

//Create creates the file name and returns a writer for it, compressed according to
//the extension of name (see Compression). Closing the returned writer closes the file.
func Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, Error{UnableToCreate + ": " + err.Error(), name, []string{"Create"}}
	}
	var h io.WriteCloser
	switch Compression(name) {
	case "zst":
		h, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	case "gz":
		h, err = gzip.NewWriterLevel(f, gzip.BestCompression)
	default:
		h = nopCloser{f}
	}
	if err != nil {
		f.Close()
		return nil, Error{"can't set compression: " + err.Error(), name, []string{"Create"}}
	}
	return &fileWriter{h: h, f: f}, nil
}

type fileWriter struct {
	h io.WriteCloser
	f *os.File
}

func (F *fileWriter) Write(p []byte) (int, error) { return F.h.Write(p) }

func (F *fileWriter) Close() error {
	err := F.h.Close()
	err2 := F.f.Close()
	if err != nil {
		return err
	}
	return err2
}

//WriteFile writes a cube file with the given name. See Write.
func WriteFile(name string, H *Header, values []float64, d Dialect) error {
	out, err := Create(name)
	if err != nil {
		return errDecorate(err, "WriteFile")
	}
	if err = Write(out, H, values, d); err != nil {
		out.Close()
		return errFile(err, "WriteFile", name)
	}
	if err = out.Close(); err != nil {
		return Error{err.Error(), name, []string{"WriteFile"}}
	}
	return nil
}

//zstdReadCloser closes the decoder and the file.
type zstdReadCloser struct {
	*zstd.Decoder
	f *os.File
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

type gzipReadCloser struct {
	*gzip.Reader
	f *os.File
}

func (g gzipReadCloser) Close() error {
	g.Reader.Close()
	return g.f.Close()
}

//Open opens the file name for reading, decompressing it if the extension
//requires it (see Compression).
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"Open"}}
	}
	switch Compression(name) {
	case "zst":
		d, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, Error{err.Error(), name, []string{"Open"}}
		}
		return zstdReadCloser{d, f}, nil
	case "gz":
		g, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, Error{err.Error(), name, []string{"Open"}}
		}
		return gzipReadCloser{g, f}, nil
	}
	return f, nil
}

//ReadValues skips the first skip lines of r and returns all the numbers found
//after them.
func ReadValues(r io.Reader, skip int) ([]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for i := 0; i < skip; i++ {
		if !sc.Scan() {
			return nil, Error{fmt.Sprintf("%s: only %d header lines", WrongFormat, i), "", []string{"ReadValues"}}
		}
	}
	ret := make([]float64, 0, 1024)
	for sc.Scan() {
		for _, field := range strings.Fields(sc.Text()) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, Error{WrongFormat + ": " + err.Error(), "", []string{"ReadValues"}}
			}
			ret = append(ret, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, Error{err.Error(), "", []string{"ReadValues"}}
	}
	return ret, nil
}

//Read reads a cube file in the Gaussian dialect from r, returning its
//header and its values.
func Read(r io.Reader) (*Header, []float64, error) {
	br := bufio.NewReader(r)
	line := func() ([]string, error) {
		s, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || s == "") {
			return nil, err
		}
		return strings.Fields(s), nil
	}
	floats := func(f []string) ([]float64, error) {
		ret := make([]float64, len(f))
		for i, v := range f {
			var err error
			if ret[i], err = strconv.ParseFloat(v, 64); err != nil {
				return nil, err
			}
		}
		return ret, nil
	}
	fail := func(err error) (*Header, []float64, error) {
		return nil, nil, Error{WrongFormat + ": " + err.Error(), "", []string{"Read"}}
	}
	H := new(Header)
	t, err := br.ReadString('\n')
	if err != nil {
		return fail(err)
	}
	H.Title = strings.TrimRight(t, "\n")
	t, err = br.ReadString('\n')
	if err != nil {
		return fail(err)
	}
	H.Comment = strings.TrimRight(t, "\n")
	f, err := line()
	if err != nil {
		return fail(err)
	}
	if len(f) < 4 {
		return fail(fmt.Errorf("atom number and origin line has %d fields", len(f)))
	}
	natoms, err := strconv.Atoi(f[0])
	if err != nil {
		return fail(err)
	}
	o, err := floats(f[1:4])
	if err != nil {
		return fail(err)
	}
	copy(H.Origin[:], o)
	H.Step = v3.Zeros(3)
	for i := 0; i < 3; i++ {
		if f, err = line(); err != nil {
			return fail(err)
		}
		if len(f) < 4 {
			return fail(fmt.Errorf("axis line %d has %d fields", i, len(f)))
		}
		if H.Counts[i], err = strconv.Atoi(f[0]); err != nil {
			return fail(err)
		}
		s, err := floats(f[1:4])
		if err != nil {
			return fail(err)
		}
		H.Step.SetVec(i, s)
	}
	if natoms > 0 {
		H.Coords = v3.Zeros(natoms)
		H.Charges = make([]float64, natoms)
	}
	for i := 0; i < natoms; i++ {
		if f, err = line(); err != nil {
			return fail(err)
		}
		a, err := floats(f)
		if err != nil || len(a) < 5 {
			return fail(fmt.Errorf("bad atom line %d", i))
		}
		H.Charges[i] = a[0]
		H.Coords.SetVec(i, a[2:5])
	}
	values, err := ReadValues(br, 0)
	if err != nil {
		return nil, nil, errDecorate(err, "Read")
	}
	if len(values) != H.NPoints() {
		return fail(fmt.Errorf("%d values for %d grid points", len(values), H.NPoints()))
	}
	for i := 0; i < 3; i++ {
		H.Extent[i] = H.Step.VecNorm(i) * float64(H.Counts[i]-1)
	}
	return H, values, nil
}

//ReadFile reads a cube file in the Gaussian dialect. See Read.
func ReadFile(name string) (*Header, []float64, error) {
	in, err := Open(name)
	if err != nil {
		return nil, nil, errDecorate(err, "ReadFile")
	}
	defer in.Close()
	H, v, err := Read(in)
	if err != nil {
		return nil, nil, errFile(err, "ReadFile", name)
	}
	return H, v, nil
}
