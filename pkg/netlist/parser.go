package netlist

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var unitMap = map[string]float64{
	"T":   1e12,  // tera
	"G":   1e9,   // giga
	"meg": 1e6,   // mega
	"K":   1e3,   // kilo
	"k":   1e3,   // kilo
	"M":   1e-3,  // milli, as in SPICE
	"m":   1e-3,  // milli
	"u":   1e-6,  // micro
	"n":   1e-9,  // nano
	"p":   1e-12, // pico
	"f":   1e-15, // femto
}

var (
	valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGMKkmunpf])?\S*$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// ParseValue reads a SPICE number with an optional scale suffix ("1.19p",
// "40meg", "6e-07"). Trailing unit letters are ignored, as SPICE does.
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}
	if multiplier, ok := unitMap[matches[2]]; ok {
		num *= multiplier
	}
	return num, nil
}

// Parse reads a deck. The first line is the title; "*" starts a comment
// and "+" continues the previous line.
func Parse(input string) (*Deck, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	d := newDeck("")

	if scanner.Scan() {
		d.Title = strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "*"))
	}

	var currentLine string
	flush := func() error {
		if currentLine == "" {
			return nil
		}
		err := d.parseLine(currentLine)
		currentLine = ""
		return err
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if idx := strings.Index(line, "*"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "+") {
			if currentLine == "" {
				return nil, fmt.Errorf("continuation without a line: %s", line)
			}
			currentLine += " " + strings.TrimSpace(line[1:])
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}
		if strings.EqualFold(line, ".end") {
			break
		}
		currentLine = line
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Deck) parseLine(line string) error {
	line = spaceRe.ReplaceAllString(line, " ")
	if strings.HasPrefix(line, ".") {
		return d.parseDotOperator(line)
	}

	element, err := parseElement(line)
	if err != nil {
		return err
	}
	d.add(*element)
	return nil
}

func (d *Deck) parseDotOperator(line string) error {
	fields := strings.Fields(line)

	switch strings.ToLower(fields[0]) {
	case ".ac":
		if len(fields) < 5 {
			return fmt.Errorf("insufficient AC parameters, need sweep type, points, fstart, and fstop")
		}

		sweep := strings.ToUpper(fields[1])
		if sweep != "DEC" && sweep != "OCT" && sweep != "LIN" {
			return fmt.Errorf("invalid sweep type: %s", sweep)
		}
		points, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("invalid points number: %v", err)
		}
		fstart, err := ParseValue(fields[3])
		if err != nil {
			return fmt.Errorf("invalid fstart: %v", err)
		}
		fstop, err := ParseValue(fields[4])
		if err != nil {
			return fmt.Errorf("invalid fstop: %v", err)
		}
		d.AC = ACParam{Sweep: sweep, Points: points, FStart: fstart, FStop: fstop}

	default:
		return fmt.Errorf("unsupported control card: %s", fields[0])
	}
	return nil
}

func parseElement(line string) (*Element, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid element format: %s", line)
	}

	elem := &Element{
		Name:  fields[0],
		Type:  strings.ToUpper(string(fields[0][0])),
		Nodes: fields[1:3],
	}

	switch elem.Type {
	case "V":
		return parseVoltageSource(elem, fields[3:])

	case "R", "L", "C":
		value, err := ParseValue(fields[3])
		if err != nil {
			return nil, err
		}
		elem.Value = value
		return elem, nil

	default:
		return nil, fmt.Errorf("unsupported element %s", fields[0])
	}
}

func parseVoltageSource(elem *Element, words []string) (*Element, error) {
	elem.Params = make(map[string]string)

	switch strings.ToUpper(words[0]) {
	case "DC":
		if len(words) < 2 {
			return nil, fmt.Errorf("missing DC value")
		}
		elem.Params["type"] = "dc"
		value, err := ParseValue(words[1])
		if err != nil {
			return nil, err
		}
		elem.Value = value

	case "AC":
		if len(words) < 2 {
			return nil, fmt.Errorf("missing AC magnitude")
		}
		elem.Params["type"] = "ac"
		magnitude, err := ParseValue(words[1])
		if err != nil {
			return nil, fmt.Errorf("invalid AC magnitude: %v", err)
		}
		elem.Value = magnitude

		elem.Params["phase"] = "0"
		if len(words) > 2 {
			elem.Params["phase"] = words[2]
		}

	default:
		return nil, fmt.Errorf("unsupported voltage source type: %s", words[0])
	}
	return elem, nil
}

// Source returns the deck's AC source as a phasor.
func (d *Deck) Source() (Element, complex128, error) {
	for _, e := range d.Elements {
		if e.Type != "V" || e.Params["type"] != "ac" {
			continue
		}
		deg, err := strconv.ParseFloat(e.Params["phase"], 64)
		if err != nil {
			return Element{}, 0, fmt.Errorf("invalid phase: %v", err)
		}
		return e, phasorFromPolar(e.Value, deg), nil
	}
	return Element{}, 0, fmt.Errorf("deck %q has no AC source", d.Title)
}
