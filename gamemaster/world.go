package gamemaster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"qrisk/game"

	"gopkg.in/yaml.v3"
)

var ErrWorldFile = errors.New("invalid world file")

// LoadDefinition reads a world from a YAML file (.yaml, .yml) or from the
// line-based text format otherwise.
func LoadDefinition(path string) (game.Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return game.Definition{}, fmt.Errorf("open world: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeDefinition(f)
	default:
		return ParseWorldText(f)
	}
}

// DecodeDefinition decodes a YAML world. Unknown keys are errors.
func DecodeDefinition(r io.Reader) (game.Definition, error) {
	var def game.Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return game.Definition{}, fmt.Errorf("%w: %w", ErrWorldFile, err)
	}
	return def, nil
}

// ParseWorldText reads the text format: one "name, troops, continent, x, y"
// line per territory, then an EDGES section of "a, b" lines, then an
// optional CONTINENTS section of "continent, gate" lines. Blank lines are
// ignored.
func ParseWorldText(r io.Reader) (game.Definition, error) {
	def := game.Definition{Continents: map[string]string{}}
	section := "TERRITORIES"
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "EDGES" || line == "CONTINENTS" {
			section = line
			continue
		}
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		switch section {
		case "TERRITORIES":
			td, err := parseTerritory(fields)
			if err != nil {
				return game.Definition{}, fmt.Errorf("%w: line %d: %w", ErrWorldFile, lineNo, err)
			}
			def.Territories = append(def.Territories, td)
		case "EDGES":
			if len(fields) != 2 {
				return game.Definition{}, fmt.Errorf("%w: line %d: edge needs two territories", ErrWorldFile, lineNo)
			}
			def.Edges = append(def.Edges, fields)
		case "CONTINENTS":
			if len(fields) != 2 {
				return game.Definition{}, fmt.Errorf("%w: line %d: continent needs a name and a gate", ErrWorldFile, lineNo)
			}
			def.Continents[fields[0]] = fields[1]
		}
	}
	if err := scanner.Err(); err != nil {
		return game.Definition{}, fmt.Errorf("read world: %w", err)
	}
	return def, nil
}

func parseTerritory(fields []string) (game.TerritoryDef, error) {
	if len(fields) != 5 {
		return game.TerritoryDef{}, fmt.Errorf("territory needs 5 fields, got %d", len(fields))
	}
	troops, err := strconv.Atoi(fields[1])
	if err != nil {
		return game.TerritoryDef{}, fmt.Errorf("troops: %w", err)
	}
	x, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return game.TerritoryDef{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return game.TerritoryDef{}, fmt.Errorf("y: %w", err)
	}
	return game.TerritoryDef{Name: fields[0], Troops: troops, Continent: fields[2], X: x, Y: y}, nil
}
