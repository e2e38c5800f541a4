package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/edits"
	"aicreat-gateway/internal/geometry"
	"aicreat-gateway/internal/prompt"
)

const editorHelp = `commands:
  show                          print the current edits
  crop-area PERCENT             crop to PERCENT of the frame (10-100)
  saturation VALUE              saturation (-100 to 100)
  text add X Y CAPTION          add a caption at preview pixels X,Y
  text move ID X Y              move a caption
  text rm ID                    remove a caption
  logo add SOURCE X Y W H       place a logo
  logo move ID X Y              move a logo
  logo rm ID                    remove a logo
  apply                         send the edits to the backend
  discard                       drop unsaved edits
  quit                          leave the editor
IDs may be shortened to any unique prefix.
`

var errAmbiguousID = errors.New("id prefix matches more than one overlay")

// editor is the line-driven front end of an edit session.
type editor struct {
	session *edits.Session
	term    *prompt.Terminal
	out     io.Writer
}

func (e *editor) run(ctx context.Context) error {
	fmt.Fprint(e.out, editorHelp)
	for {
		line, err := e.term.ReadLine(ctx, "edit> ")
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				if e.session.Dirty() {
					fmt.Fprintln(e.out, "\nedits not applied")
				}
				return nil
			}
			return err
		}
		done, err := e.exec(ctx, strings.Fields(line))
		if err != nil {
			fmt.Fprintf(e.out, "error: %s\n", creative.Message(err))
			continue
		}
		if done {
			return nil
		}
	}
}

// exec runs one command and reports whether the editor should exit.
func (e *editor) exec(ctx context.Context, args []string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}
	switch args[0] {
	case "help", "?":
		fmt.Fprint(e.out, editorHelp)
	case "show":
		e.show()
	case "crop-area":
		n, err := intArg(args, 1)
		if err != nil {
			return false, err
		}
		return false, e.session.SetCropArea(n)
	case "saturation":
		n, err := intArg(args, 1)
		if err != nil {
			return false, err
		}
		return false, e.session.SetSaturation(n)
	case "text":
		return false, e.text(args[1:])
	case "logo":
		return false, e.logo(args[1:])
	case "apply":
		asset, err := e.session.Apply(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(e.out, "updated %s: %s\n", asset.ID, asset.AssetURL)
	case "discard":
		if e.session.Discard(ctx) {
			fmt.Fprintln(e.out, "edits discarded")
		}
	case "quit", "exit", "q":
		if !e.session.Dirty() {
			return true, nil
		}
		if e.session.Discard(ctx) {
			fmt.Fprintln(e.out, "edits not applied")
			return true, nil
		}
	default:
		return false, fmt.Errorf("unknown command %q, try help", args[0])
	}
	return false, nil
}

func (e *editor) text(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: text add|move|rm")
	}
	switch args[0] {
	case "add":
		if len(args) < 4 {
			return errors.New("usage: text add X Y CAPTION")
		}
		pos, err := floatArgs(args[1:3])
		if err != nil {
			return err
		}
		id, err := e.session.AddText(strings.Join(args[3:], " "), pos[0], pos[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "text %s added\n", shortID(id))
		return nil
	case "move":
		if len(args) != 4 {
			return errors.New("usage: text move ID X Y")
		}
		id, err := resolveID(args[1], textIDs(e.session.TextOverlays()))
		if err != nil {
			return err
		}
		pos, err := floatArgs(args[2:4])
		if err != nil {
			return err
		}
		return e.session.MoveText(id, pos[0], pos[1])
	case "rm":
		if len(args) != 2 {
			return errors.New("usage: text rm ID")
		}
		id, err := resolveID(args[1], textIDs(e.session.TextOverlays()))
		if err != nil {
			return err
		}
		return e.session.RemoveText(id)
	}
	return fmt.Errorf("unknown text command %q", args[0])
}

func (e *editor) logo(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: logo add|move|rm")
	}
	switch args[0] {
	case "add":
		if len(args) != 6 {
			return errors.New("usage: logo add SOURCE X Y W H")
		}
		b, err := floatArgs(args[2:6])
		if err != nil {
			return err
		}
		id, err := e.session.AddLogo(args[1], geometry.NewRect(b[0], b[1], b[2], b[3]))
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "logo %s added\n", shortID(id))
		return nil
	case "move":
		if len(args) != 4 {
			return errors.New("usage: logo move ID X Y")
		}
		id, err := resolveID(args[1], logoIDs(e.session.LogoOverlays()))
		if err != nil {
			return err
		}
		pos, err := floatArgs(args[2:4])
		if err != nil {
			return err
		}
		return e.session.MoveLogo(id, pos[0], pos[1])
	case "rm":
		if len(args) != 2 {
			return errors.New("usage: logo rm ID")
		}
		id, err := resolveID(args[1], logoIDs(e.session.LogoOverlays()))
		if err != nil {
			return err
		}
		return e.session.RemoveLogo(id)
	}
	return fmt.Errorf("unknown logo command %q", args[0])
}

func (e *editor) show() {
	asset := e.session.Asset()
	crop := e.session.Crop()
	fmt.Fprintf(e.out, "asset %s %dx%d, crop area %d%%, saturation %d\n",
		asset.ID, asset.Dimensions.Width, asset.Dimensions.Height, e.session.CropArea(), e.session.Saturation())
	fmt.Fprintf(e.out, "crop %.0f,%.0f %.0fx%.0f\n", crop.X, crop.Y, crop.Width, crop.Height)
	for _, t := range e.session.TextOverlays() {
		fmt.Fprintf(e.out, "text %s %.0f,%.0f %q\n", shortID(t.ID), t.X, t.Y, t.Text)
	}
	for _, l := range e.session.LogoOverlays() {
		fmt.Fprintf(e.out, "logo %s %.0f,%.0f %.0fx%.0f %s\n", shortID(l.ID), l.X, l.Y, l.Width, l.Height, l.Source)
	}
	if e.session.Dirty() {
		fmt.Fprintln(e.out, "(unsaved)")
	}
}

// resolveID finds the single id starting with prefix.
func resolveID(prefix string, ids []string) (string, error) {
	var match string
	for _, id := range ids {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("%s: %w", prefix, errAmbiguousID)
		}
		match = id
	}
	if match == "" {
		return "", fmt.Errorf("%s: %w", prefix, edits.ErrOverlayNotFound)
	}
	return match, nil
}

func textIDs(overlays []edits.TextOverlay) []string {
	ids := make([]string, len(overlays))
	for i, o := range overlays {
		ids[i] = o.ID
	}
	return ids
}

func logoIDs(overlays []edits.LogoOverlay) []string {
	ids := make([]string, len(overlays))
	for i, o := range overlays {
		ids[i] = o.ID
	}
	return ids
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func intArg(args []string, i int) (int, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("%s needs a value", args[0])
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", args[0], args[i])
	}
	return n, nil
}

func floatArgs(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", a)
		}
		out[i] = f
	}
	return out, nil
}
