/*
 * input.go, part of orbplot.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

//Package input reads the bracketed keyword input used to drive orbplot.
//An input is a flat list of words. A section is a keyword followed by
//a { } block, a value is a keyword followed by one word. Lookups only
//consider words at the nesting level of the starting position, so keywords
//inside nested sections are not found from outside. Keywords are caseless.
//Everything after a # in a line is a comment.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	StartSec = "{"
	EndSec   = "}"
	Comment  = "#"
)

//Parse splits the input read from r into words, removing comments.
//Brackets are always separate words, even if not surrounded by spaces.
//It returns an error if the brackets don't balance.
func Parse(r io.Reader) ([]string, error) {
	words := make([]string, 0, 64)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, Comment); i >= 0 {
			line = line[:i]
		}
		line = strings.ReplaceAll(line, StartSec, " "+StartSec+" ")
		line = strings.ReplaceAll(line, EndSec, " "+EndSec+" ")
		words = append(words, strings.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := CheckBrackets(words); err != nil {
		return nil, err
	}
	return words, nil
}

//ParseFile opens and parses the file name.
func ParseFile(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	w, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return w, nil
}

//CheckBrackets returns an error if the brackets in words don't add up.
func CheckBrackets(words []string) error {
	level := 0
	for i, w := range words {
		switch w {
		case StartSec:
			level++
		case EndSec:
			level--
		}
		if level < 0 {
			return fmt.Errorf("unmatched %s at word %d", EndSec, i)
		}
	}
	if level != 0 {
		return fmt.Errorf("%d unclosed %s", level, StartSec)
	}
	return nil
}

//find returns the position of the first occurrence of name at the level of pos,
//starting from pos, or -1. The search stops at the end of the enclosing section.
func find(words []string, pos int, name string) int {
	level := 0
	for ; pos < len(words); pos++ {
		switch words[pos] {
		case StartSec:
			level++
		case EndSec:
			level--
		}
		if level < 0 {
			return -1
		}
		if level == 0 && strings.EqualFold(words[pos], name) {
			return pos
		}
	}
	return -1
}

//HasKeyword returns true if name is present at the level of pos.
func HasKeyword(words []string, pos int, name string) bool {
	return find(words, pos, name) >= 0
}

//ReadSection returns the words between the brackets that follow name, not
//including the brackets themselves, and the position right after the closing
//bracket. The last value is false if the section is not present.
func ReadSection(words []string, pos int, name string) ([]string, int, bool) {
	start := find(words, pos, name)
	if start < 0 || start+1 >= len(words) || words[start+1] != StartSec {
		return nil, pos, false
	}
	level := 0
	for i := start + 1; i < len(words); i++ {
		switch words[i] {
		case StartSec:
			level++
		case EndSec:
			level--
		}
		if level == 0 {
			sec := make([]string, i-start-2)
			copy(sec, words[start+2:i])
			return sec, i + 1, true
		}
	}
	return nil, pos, false
}

//ReadString returns the word following name. The last value is false if name
//is not present or has nothing after it.
func ReadString(words []string, pos int, name string) (string, int, bool) {
	p := find(words, pos, name)
	if p < 0 || p+1 >= len(words) {
		return "", pos, false
	}
	return words[p+1], p + 2, true
}

//ReadFloat is like ReadString but converts the value to float64. A value that is present
//but cannot be converted is returned as an error.
func ReadFloat(words []string, pos int, name string) (float64, bool, error) {
	s, _, ok := ReadString(words, pos, name)
	if !ok {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", name, err)
	}
	return f, true, nil
}

//ReadInt is like ReadFloat for integers.
func ReadInt(words []string, pos int, name string) (int, bool, error) {
	s, _, ok := ReadString(words, pos, name)
	if !ok {
		return 0, false, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", name, err)
	}
	return i, true, nil
}

//Floats converts each word in words to float64.
func Floats(words []string) ([]float64, error) {
	ret := make([]float64, len(words))
	for i, w := range words {
		f, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, err
		}
		ret[i] = f
	}
	return ret, nil
}

//Ints converts each word in words to int.
func Ints(words []string) ([]int, error) {
	ret := make([]int, len(words))
	for i, w := range words {
		n, err := strconv.Atoi(w)
		if err != nil {
			return nil, err
		}
		ret[i] = n
	}
	return ret, nil
}
