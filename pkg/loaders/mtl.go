package loaders

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/arnegrid/photonforge/pkg/core"
	"github.com/arnegrid/photonforge/pkg/material"
)

// LoadMTL parses a Wavefront .MTL material library into a name-keyed map of
// Materials, best-effort-converting the classic Kd/Ns/Ni/d Phong parameters
// into this renderer's Cook-Torrance parameter space (other properties, such
// as Ka, are ignored), following
// original_source/src/io.rs's load_mtl:
//   - Kd becomes the material's albedo color.
//   - Ns (specular power) becomes roughness via (2/(Ns+2))^(1/4).
//   - Ni (index of refraction) becomes Index, floored at 1+1e-4 since a
//     dielectric of exactly eta=1 is degenerate for this BSDF.
//   - d (dissolve/opacity) below 0.8 marks the material Transparent.
func LoadMTL(filename string) (map[string]material.Material, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open mtl file: %w", err)
	}
	defer file.Close()

	materials := make(map[string]material.Material)
	current := ""

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.Fields(line)

		if tokens[0] == "newmtl" {
			current = tokens[1]
			materials[current] = material.Diffuse(core.NewVec3(1, 1, 1))
			continue
		}

		if current == "" {
			return nil, fmt.Errorf("mtl property %q given before any `newmtl`", tokens[0])
		}
		mat := materials[current]

		switch tokens[0] {
		case "Kd":
			color, err := parseOBJPoint(tokens)
			if err != nil {
				return nil, err
			}
			mat.Color = color
		case "Ns":
			ns, err := strconv.ParseFloat(tokens[1], 64)
			if err != nil {
				return nil, fmt.Errorf("could not parse Ns value: %w", err)
			}
			mat.Roughness = math.Sqrt(math.Sqrt(2.0 / (ns + 2.0)))
		case "Ni":
			ni, err := strconv.ParseFloat(tokens[1], 64)
			if err != nil {
				return nil, fmt.Errorf("could not parse Ni value: %w", err)
			}
			mat.Index = math.Max(ni, 1.0+1e-4)
		case "d":
			d, err := strconv.ParseFloat(tokens[1], 64)
			if err != nil {
				return nil, fmt.Errorf("could not parse d value: %w", err)
			}
			if d < 0.8 {
				mat.Transparent = true
			}
		}

		materials[current] = mat
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mtl file: %w", err)
	}

	return materials, nil
}
