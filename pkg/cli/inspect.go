package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/cli/config"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/table"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/types"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/encode"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/infer"
)

type inspectColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type inspectReport struct {
	Source   string          `json:"source"`
	TableID  string          `json:"table_id"`
	Excluded bool            `json:"excluded"`
	Rows     int             `json:"rows"`
	Schema   []inspectColumn `json:"schema,omitempty"`
	Preview  []string        `json:"preview,omitempty"`
}

// cmdInspect resolves schemas and renders a payload preview without touching
// any destination. Useful to check inference and sanitization before a load.
func cmdInspect() *cli.Command {
	var (
		sourceCfg   config.Source
		policyCfg   config.Policy
		mode        string
		delimiter   string
		timezone    string
		previewRows int64
	)

	flags := joinFlags(
		sourceCfg.Flags(),
		policyCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "inference-mode",
				Usage:       "Column type inference mode [basic|all-string]",
				Destination: &mode,
				Value:       types.InferenceBasic.String(),
				Sources:     cli.EnvVars("SBSYNC_INFERENCE_MODE"),
			},
			&cli.StringFlag{
				Name:        "field-delimiter",
				Usage:       "Field delimiter of the generated load payload",
				Destination: &delimiter,
				Value:       ",",
				Sources:     cli.EnvVars("SBSYNC_FIELD_DELIMITER"),
			},
			&cli.StringFlag{
				Name:        "timezone",
				Usage:       "IANA time zone for DATETIME rendering",
				Destination: &timezone,
				Value:       "UTC",
				Sources:     cli.EnvVars("SBSYNC_TIMEZONE"),
			},
			&cli.Int64Flag{
				Name:        "preview-rows",
				Usage:       "Number of encoded payload lines to show per source",
				Destination: &previewRows,
				Value:       5,
			},
		},
	)

	return &cli.Command{
		Name:    "inspect",
		Aliases: []string{"i"},
		Usage:   "Show inferred schemas and encoded payload previews",
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			inferenceMode := types.InferenceMode(mode)
			if err := inferenceMode.Validate(); err != nil {
				return err
			}

			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return err
			}

			delim := ','
			if delimiter != "" {
				delim = []rune(delimiter)[0]
			}

			source, err := sourceCfg.Configure(ctx)
			if err != nil {
				return err
			}

			syncPolicy, err := policyCfg.Configure()
			if err != nil {
				return err
			}

			tables, err := source.Tables(ctx)
			if err != nil {
				return err
			}

			reports := make([]inspectReport, 0, len(tables))
			for _, tbl := range tables {
				report := inspectReport{
					Source:   tbl.Name.String(),
					Excluded: syncPolicy.IsExcluded(tbl.Name),
					Rows:     len(tbl.Rows),
				}

				tableID := syncPolicy.OverrideFor(tbl.Name)
				if tableID == "" {
					tableID = types.TableID(table.SanitizeTableID(tbl.Name.String()))
				}
				report.TableID = tableID.String()

				var schema table.Schema
				if inferenceMode == types.InferenceAllString {
					schema = infer.AllString(tbl.Header)
				} else {
					schema = infer.Schema(tbl.Header, tbl.Rows)
				}
				for _, col := range schema {
					report.Schema = append(report.Schema, inspectColumn{
						Name: col.Name,
						Type: string(col.Type),
					})
				}

				payload := encode.Table(tbl, delim, schema, loc)
				lines := strings.Split(strings.TrimRight(payload, "\n"), "\n")
				if int64(len(lines)) > previewRows+1 {
					lines = lines[:previewRows+1]
				}
				report.Preview = lines

				reports = append(reports, report)
			}

			out, err := json.MarshalIndent(reports, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
