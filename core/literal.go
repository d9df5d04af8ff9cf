//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of ReviewMart.
//
// ReviewMart is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ReviewMart is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ReviewMart. If not, see https://www.gnu.org/licenses/.

package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// The raw feeds encode nested fields as Python literals, e.g. "[3, 5]",
// "{'Books': 12345}" or "[['A', 'B'], ['C']]". ParseLiteral decodes that
// dialect: single- or double-quoted strings, ints, floats, booleans, None,
// lists and dicts. Map entries keep their literal order.

// ParseLiteral decodes a text-encoded nested structure into a Value.
// It returns ErrMalformedField (wrapped) when the text is not a valid
// literal or has trailing garbage.
func ParseLiteral(text string) (Value, error) {
	p := &literalParser{input: text}
	p.skipSpace()
	v, err := p.parseValue()
	if err != nil {
		return Null(), err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return Null(), p.errorf("trailing characters at offset %d", p.pos)
	}
	return v, nil
}

// LooksLikeLiteral reports whether a raw string field plausibly holds an
// encoded list or dict and should be run through ParseLiteral at ingestion.
func LooksLikeLiteral(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{")
}

type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: literal %q: %s", ErrMalformedField, p.input, fmt.Sprintf(format, args...))
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *literalParser) peek() (byte, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *literalParser) parseValue() (Value, error) {
	c, ok := p.peek()
	if !ok {
		return Null(), p.errorf("unexpected end of input")
	}
	switch {
	case c == '[':
		return p.parseList()
	case c == '{':
		return p.parseMap()
	case c == '\'' || c == '"':
		s, err := p.parseString()
		if err != nil {
			return Null(), err
		}
		return String(s), nil
	default:
		return p.parseBareword()
	}
}

func (p *literalParser) parseList() (Value, error) {
	p.pos++ // consume '['
	var items []Value
	p.skipSpace()
	if c, ok := p.peek(); ok && c == ']' {
		p.pos++
		return List(), nil
	}
	for {
		item, err := p.parseValue()
		if err != nil {
			return Null(), err
		}
		items = append(items, item)
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return Null(), p.errorf("unterminated list")
		}
		switch c {
		case ',':
			p.pos++
			p.skipSpace()
		case ']':
			p.pos++
			return List(items...), nil
		default:
			return Null(), p.errorf("unexpected %q in list", c)
		}
	}
}

func (p *literalParser) parseMap() (Value, error) {
	p.pos++ // consume '{'
	var pairs []Pair
	p.skipSpace()
	if c, ok := p.peek(); ok && c == '}' {
		p.pos++
		return Map(), nil
	}
	for {
		key, err := p.parseValue()
		if err != nil {
			return Null(), err
		}
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return Null(), p.errorf("unterminated dict")
		}
		// A dict without colons, e.g. {'Unranked'}, is a Python set literal.
		// The feed uses one as the "no sales rank" sentinel, so decode it as
		// a map of keys with null values.
		if c == ',' || c == '}' {
			pairs = append(pairs, Pair{Key: key.Format(), Value: Null()})
			p.pos++
			if c == '}' {
				return Map(pairs...), nil
			}
			p.skipSpace()
			continue
		}
		if c != ':' {
			return Null(), p.errorf("expected ':' in dict, got %q", c)
		}
		p.pos++
		p.skipSpace()
		val, err := p.parseValue()
		if err != nil {
			return Null(), err
		}
		pairs = append(pairs, Pair{Key: key.Format(), Value: val})
		p.skipSpace()
		c, ok = p.peek()
		if !ok {
			return Null(), p.errorf("unterminated dict")
		}
		switch c {
		case ',':
			p.pos++
			p.skipSpace()
		case '}':
			p.pos++
			return Map(pairs...), nil
		default:
			return Null(), p.errorf("unexpected %q in dict", c)
		}
	}
}

func (p *literalParser) parseString() (string, error) {
	quote := p.input[p.pos]
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case '\\':
			if p.pos+1 >= len(p.input) {
				return "", p.errorf("dangling escape")
			}
			next := p.input[p.pos+1]
			switch next {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(next)
			}
			p.pos += 2
		case quote:
			p.pos++
			return sb.String(), nil
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

// parseBareword handles numbers and the unquoted keywords the feed uses:
// None, True, False and pandas' nan.
func (p *literalParser) parseBareword() (Value, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == ',' || c == ']' || c == '}' || c == ':' || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	word := p.input[start:p.pos]
	if word == "" {
		return Null(), p.errorf("unexpected %q", p.input[start])
	}
	switch word {
	case "None", "nan", "NaN":
		return Null(), nil
	case "True":
		return Bool(true), nil
	case "False":
		return Bool(false), nil
	}
	if i, err := strconv.ParseInt(word, 10, 64); err == nil {
		return Int(i), nil
	}
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return Float(f), nil
	}
	return Null(), p.errorf("unrecognized token %q", word)
}
