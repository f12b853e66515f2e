// Package api exposes structure masses and fragment lists over HTTP
package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ChrisMcGann/pgfrag/pkg/core"
	"github.com/ChrisMcGann/pgfrag/pkg/filter"
	"github.com/ChrisMcGann/pgfrag/pkg/fragment"
	"github.com/ChrisMcGann/pgfrag/pkg/notation"
	"github.com/ChrisMcGann/pgfrag/pkg/smithereens"
	"github.com/ChrisMcGann/pgfrag/pkg/writer/text"
)

// MassResult is the body of GET /mass
type MassResult struct {
	Structure string `json:"structure"`
	Mass      string `json:"mass"`
	Formula   string `json:"formula"`
}

// FragmentResult is one entry of GET /fragments
type FragmentResult struct {
	Structure string `json:"structure"`
	Mass      string `json:"mass"`
	Formula   string `json:"formula"`
	Cleaved   []int  `json:"cleaved"`
}

type PeptidoglycanAPI struct {
	Router  fiber.Router
	Parser  *notation.Parser
	Options fragment.Options
	Filter  filter.Config
}

func (api *PeptidoglycanAPI) Register() {
	if api.Parser == nil {
		api.Parser = notation.NewParser(nil)
	}

	// Mass and formula of one structure
	api.Router.Get(
		"/mass", func(c *fiber.Ctx) error {
			pg, err := api.parse(c.Query("structure"))
			if err != nil {
				return applyErrorToResponse(c, fiber.StatusBadRequest, "Invalid structure", err)
			}

			mass, err := pg.MonoisotopicMass()
			if err != nil {
				return applyErrorToResponse(c, fiber.StatusUnprocessableEntity, "Cannot compute mass", err)
			}
			formula, err := pg.Structure().Formula()
			if err != nil {
				return applyErrorToResponse(c, fiber.StatusUnprocessableEntity, "Cannot compute formula", err)
			}

			return applySuccessToResponse(c, MassResult{
				Structure: pg.String(),
				Mass:      mass,
				Formula:   formula.String(),
			})
		},
	)

	// Fragments of one structure, as JSON or the tab-separated wire format
	api.Router.Get(
		"/fragments", func(c *fiber.Ctx) error {
			pg, err := api.parse(c.Query("structure"))
			if err != nil {
				return applyErrorToResponse(c, fiber.StatusBadRequest, "Invalid structure", err)
			}

			// Optional overrides of the configured options
			opts := api.Options
			opts.MaxCleavages = c.QueryInt("maxCleavages", opts.MaxCleavages)
			opts.AllProducts = c.QueryBool("allProducts", opts.AllProducts)
			if conv := c.Query("convention"); conv != "" {
				if opts.Convention, err = core.ParseConvention(conv); err != nil {
					return applyErrorToResponse(c, fiber.StatusBadRequest, "Invalid convention", err)
				}
			}

			engine, err := fragment.NewEngine(opts)
			if err != nil {
				return applyErrorToResponse(c, fiber.StatusBadRequest, "Invalid options", err)
			}
			fragments, err := engine.Fragments(pg.Structure())
			if err != nil {
				var tooLarge *core.FragmentationTooLargeError
				if errors.As(err, &tooLarge) {
					return applyErrorToResponse(c, fiber.StatusUnprocessableEntity, "Structure too large", err)
				}
				return applyErrorToResponse(c, fiber.StatusInternalServerError, "Unexpected error", err)
			}
			fragments = api.Filter.Apply(pg.Structure(), fragments)

			if c.Query("format") == "text" {
				body, err := text.FormatFragments(fragments)
				if err != nil {
					return applyErrorToResponse(c, fiber.StatusInternalServerError, "Unexpected error", err)
				}
				c.Set("Content-Type", "text/plain")
				return c.SendString(body)
			}

			results := make([]FragmentResult, len(fragments))
			for i, f := range fragments {
				results[i] = FragmentResult{
					Structure: f.Notation,
					Mass:      text.FormatMass(f.Mass),
					Formula:   f.Formula.String(),
					Cleaved:   f.Cleaved,
				}
			}
			return applySuccessToResponse(c, results)
		},
	)
}

func (api *PeptidoglycanAPI) parse(structure string) (*smithereens.Peptidoglycan, error) {
	if structure == "" {
		return nil, errors.New("structure parameter is required")
	}
	return smithereens.NewWithParser(api.Parser, structure)
}
