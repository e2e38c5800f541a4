package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/edits"
	"aicreat-gateway/internal/poller"

	"github.com/urfave/cli/v2"
)

func providersCommand() *cli.Command {
	return &cli.Command{
		Name:  "providers",
		Usage: "list generation providers",
		Action: func(c *cli.Context) error {
			providers, err := clientFrom(c).GetProviders(c.Context)
			if err != nil {
				return err
			}
			for _, p := range providers.Providers {
				marker := " "
				if p == providers.DefaultProvider {
					marker = "*"
				}
				fmt.Fprintf(c.App.Writer, "%s %s\n", marker, p)
			}
			return nil
		},
	}
}

func formatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "list output formats by platform",
		Action: func(c *cli.Context) error {
			formats, err := clientFrom(c).GetFormats(c.Context)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPLATFORM\tFORMAT\tSIZE\tKIND")
			for _, group := range []struct {
				kind  string
				specs []creative.FormatSpec
			}{{"resizing", formats.Resizing}, {"repurposing", formats.Repurposing}} {
				for _, f := range group.specs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%s\n", f.ID, platformName(f), f.Name, f.Width, f.Height, group.kind)
				}
			}
			return w.Flush()
		},
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "start a generation job and follow it to the end",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "project", Usage: "project id", Required: true},
			&cli.StringSliceFlag{Name: "format", Usage: "format id, repeatable", Required: true},
			&cli.StringFlag{Name: "provider", Usage: "AI provider, backend default when empty"},
			&cli.StringFlag{Name: "prompt", Usage: "custom prompt"},
			&cli.BoolFlag{Name: "detach", Usage: "print the job id and exit"},
		},
		Action: func(c *cli.Context) error {
			job, err := clientFrom(c).StartGeneration(c.Context, creative.GenerationRequest{
				ProjectID:    c.String("project"),
				FormatIDs:    c.StringSlice("format"),
				Provider:     c.String("provider"),
				CustomPrompt: c.String("prompt"),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "job %s started\n", job.JobID)
			if c.Bool("detach") {
				return nil
			}
			return follow(c, job.JobID)
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "show a job's status",
		ArgsUsage: "JOB_ID",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "follow the job until it ends"},
		},
		Action: func(c *cli.Context) error {
			jobID := c.Args().First()
			if jobID == "" {
				return cli.Exit("JOB_ID is required", 2)
			}
			if c.Bool("watch") {
				return follow(c, jobID)
			}
			status, err := clientFrom(c).GetJobStatus(c.Context, jobID)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s %s %d%%\n", jobID, status.Status, status.Progress)
			return nil
		},
	}
}

// follow polls a job with a progress bar until it ends or the user
// interrupts it.
func follow(c *cli.Context, jobID string) error {
	logger := loggerFrom(c)
	p := poller.New(clientFrom(c), poller.Options{Logger: &logger})
	bar := newProgressLine(c.App.Writer)

	res := p.Watch(c.Context, jobID, func(snap poller.Snapshot) {
		bar.Update(snap)
	})
	bar.Done(res)

	switch res.State {
	case poller.StateCompleted:
		printResults(c.App.Writer, res.Results)
		return nil
	case poller.StateCanceled:
		fmt.Fprintf(c.App.Writer, "stopped following %s; the job keeps running\n", jobID)
		return nil
	}
	if errors.Is(res.Err, poller.ErrResultsUnavailable) {
		return cli.Exit(fmt.Sprintf("job %s finished but its assets could not be fetched: %v", jobID, res.Err), 1)
	}
	return cli.Exit(fmt.Sprintf("job %s failed: %v", jobID, res.Err), 1)
}

// printResults lists a finished job's assets. Assets the backend flagged as
// NSFW are marked and their URL is withheld.
func printResults(out io.Writer, results creative.JobResults) {
	platforms := make([]string, 0, len(results))
	for platform := range results {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLATFORM\tASSET\tFORMAT\tSIZE\tURL")
	flagged := 0
	for _, platform := range platforms {
		for _, a := range results[platform] {
			url := a.AssetURL
			if a.IsNSFW {
				url = "[nsfw] withheld"
				flagged++
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%s\n",
				titleCase(platform), a.ID, a.FormatName, a.Dimensions.Width, a.Dimensions.Height, url)
		}
	}
	_ = w.Flush()
	if flagged > 0 {
		fmt.Fprintf(out, "%d asset(s) flagged as NSFW; review them in the dashboard\n", flagged)
	}
}

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "crop, recolor or caption a generated asset",
		ArgsUsage: "ASSET_ID",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "crop-area", Usage: "crop to this percent of the frame (10-100)", Value: edits.MaxCropArea},
			&cli.IntFlag{Name: "saturation", Usage: "saturation (-100 to 100)"},
			&cli.StringFlag{Name: "text", Usage: "caption to place on the asset"},
			&cli.Float64Flag{Name: "text-x", Usage: "caption x in preview pixels"},
			&cli.Float64Flag{Name: "text-y", Usage: "caption y in preview pixels"},
			&cli.Float64Flag{Name: "display-width", Usage: "preview width the positions refer to", Value: 600},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "apply without asking"},
			&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "edit from a command prompt"},
		},
		Action: func(c *cli.Context) error {
			assetID := c.Args().First()
			if assetID == "" {
				return cli.Exit("ASSET_ID is required", 2)
			}

			logger := loggerFrom(c)
			term := terminal(c)
			session := edits.NewSession(clientFrom(c), term, edits.Options{
				DisplayWidth: c.Float64("display-width"),
				Logger:       &logger,
			})
			if err := session.Load(c.Context, assetID); err != nil {
				return err
			}
			if err := session.SetCropArea(c.Int("crop-area")); err != nil {
				return err
			}
			if err := session.SetSaturation(c.Int("saturation")); err != nil {
				return err
			}
			if text := c.String("text"); text != "" {
				if _, err := session.AddText(text, c.Float64("text-x"), c.Float64("text-y")); err != nil {
					return err
				}
			}
			if c.Bool("interactive") {
				e := &editor{session: session, term: term, out: c.App.Writer}
				return e.run(c.Context)
			}
			if !session.Dirty() {
				fmt.Fprintln(c.App.Writer, "nothing to apply")
				return nil
			}

			req, err := session.Request(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "crop x=%.3f y=%.3f w=%.3f h=%.3f, saturation %.2f, %d caption(s)\n",
				req.Crop.X, req.Crop.Y, req.Crop.Width, req.Crop.Height, req.Saturation, len(req.TextOverlays))

			if !c.Bool("yes") && !term.Confirm(c.Context, fmt.Sprintf("Apply edits to %s?", assetID)) {
				fmt.Fprintln(c.App.Writer, "edits not applied")
				return nil
			}

			asset, err := session.Apply(c.Context)
			if err != nil {
				return cli.Exit(creative.Message(err), 1)
			}
			fmt.Fprintf(c.App.Writer, "updated %s: %s\n", asset.ID, asset.AssetURL)
			return nil
		},
	}
}

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "download generated assets",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "asset", Usage: "asset id, repeatable", Required: true},
			&cli.StringFlag{Name: "format", Usage: "JPEG, PNG or PSD", Value: "JPEG"},
			&cli.StringFlag{Name: "quality", Usage: "High, Medium or Low", Value: "High"},
			&cli.StringFlag{Name: "grouping", Usage: "Batch or Individual", Value: "Batch"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file", Value: "aicreat-download.zip"},
		},
		Action: func(c *cli.Context) error {
			client := clientFrom(c)
			req, err := edits.BatchRequest(c.Context, edits.DownloadChoice{
				AssetIDs: c.StringSlice("asset"),
				Format:   c.String("format"),
				Quality:  c.String("quality"),
				Grouping: c.String("grouping"),
			}, terminal(c))
			if err != nil {
				return err
			}

			resp, err := client.DownloadAssets(c.Context, req)
			if err != nil {
				return err
			}

			f, err := os.Create(c.String("out"))
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			n, err := client.Fetch(c.Context, resp.DownloadURL, f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(c.String("out"))
				return err
			}
			fmt.Fprintf(c.App.Writer, "saved %s (%d bytes)\n", c.String("out"), n)
			return nil
		},
	}
}

func projectsCommand() *cli.Command {
	return &cli.Command{
		Name:  "projects",
		Usage: "list or delete projects",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list projects",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20},
					&cli.IntFlag{Name: "offset"},
				},
				Action: func(c *cli.Context) error {
					list, err := clientFrom(c).ListProjects(c.Context, c.Int("limit"), c.Int("offset"))
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					fmt.Fprintln(w, "ID\tNAME\tSTATUS\tASSETS")
					for _, p := range list.Projects {
						fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Status, p.AssetCount)
					}
					if err := w.Flush(); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%d of %d\n", len(list.Projects), list.Total)
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "delete a project",
				ArgsUsage: "PROJECT_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "delete without asking"},
				},
				Action: func(c *cli.Context) error {
					projectID := c.Args().First()
					if projectID == "" {
						return cli.Exit("PROJECT_ID is required", 2)
					}
					if !c.Bool("yes") && !terminal(c).Confirm(c.Context, fmt.Sprintf("Delete project %s?", projectID)) {
						return nil
					}
					if err := clientFrom(c).DeleteProject(c.Context, projectID); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "deleted %s\n", projectID)
					return nil
				},
			},
		},
	}
}
