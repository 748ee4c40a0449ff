package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cardpress/cardpress/pkg/errors"
	"github.com/cardpress/cardpress/pkg/store"
	"github.com/cardpress/cardpress/pkg/template"
)

// newTemplatesCmd creates the templates command group for browsing a
// running server's template store.
func newTemplatesCmd() *cobra.Command {
	var (
		addr string
		org  string
	)

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List and inspect stored templates",
	}
	cmd.PersistentFlags().StringVar(&addr, "addr", "http://localhost:8080", "API server address")
	cmd.PersistentFlags().StringVar(&org, "org", "", "organization id")

	list := &cobra.Command{
		Use:   "list",
		Short: "List an organization's templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := fetchTemplates(cmd.Context(), addr, org)
			if err != nil {
				return err
			}
			fmt.Println(renderTemplateTable(recs))
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show [template-id]",
		Short: "Show one template (interactive picker without an id)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &apiClient{addr: addr}
			var rec store.Record
			if len(args) == 1 {
				var err error
				rec, err = client.getTemplate(cmd.Context(), org, args[0])
				if err != nil {
					return err
				}
			} else {
				recs, err := fetchTemplates(cmd.Context(), addr, org)
				if err != nil {
					return err
				}
				picked, err := pickTemplate(recs)
				if err != nil || picked == nil {
					return err
				}
				rec = *picked
			}
			printTemplate(rec)
			return nil
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(show)
	return cmd
}

// fetchTemplates lists templates with a spinner while the request runs.
func fetchTemplates(ctx context.Context, addr, org string) ([]store.Record, error) {
	sp := newSpinnerWithContext(ctx, "Fetching templates...")
	sp.Start()
	client := &apiClient{addr: addr}
	recs, err := client.listTemplates(ctx, org)
	sp.Stop()
	return recs, err
}

// printTemplate writes one template's metadata and its config document.
func printTemplate(rec store.Record) {
	fmt.Println(StyleTitle.Render(rec.Name))
	printKeyValue("id", rec.ID)
	printKeyValue("org", rec.OrgID)
	if rec.Category != "" {
		printKeyValue("category", rec.Category)
	}
	if cfg, err := template.ParseConfig(rec.Config); err == nil {
		printKeyValue("layout", string(cfg.Layout))
		dims := cfg.EffectiveDimensions()
		printKeyValue("size", fmt.Sprintf("%dx%d (%s)", dims.Width, dims.Height, dims.Label))
		printKeyValue("layers", fmt.Sprintf("%d", len(cfg.Layers)))
	}
	printKeyValue("updated", rec.UpdatedAt.Format(time.RFC3339))

	var pretty map[string]any
	if err := json.Unmarshal(rec.Config, &pretty); err == nil {
		if out, err := json.MarshalIndent(pretty, "", "  "); err == nil {
			fmt.Println()
			fmt.Println(StyleDim.Render(string(out)))
		}
	}
}

// pickTemplate runs the interactive bubbletea picker.
func pickTemplate(recs []store.Record) (*store.Record, error) {
	if len(recs) == 0 {
		printError("no templates found")
		return nil, nil
	}
	model := newTemplateListModel(recs)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(templateListModel)
	if !ok || m.selected == nil {
		return nil, nil
	}
	return m.selected, nil
}

// apiClient is a thin client for the template endpoints.
type apiClient struct {
	addr string
}

func (c *apiClient) listTemplates(ctx context.Context, org string) ([]store.Record, error) {
	var recs []store.Record
	if err := c.getJSON(ctx, fmt.Sprintf("%s/v1/orgs/%s/templates/", c.addr, org), &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *apiClient) getTemplate(ctx context.Context, org, id string) (store.Record, error) {
	var rec store.Record
	err := c.getJSON(ctx, fmt.Sprintf("%s/v1/orgs/%s/templates/%s", c.addr, org, id), &rec)
	return rec, err
}

func (c *apiClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "calling %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errors.New(errors.ErrCodeTemplateNotFound, "template not found")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.New(errors.ErrCodeNetwork, "server returned %d: %s", resp.StatusCode, msg)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
