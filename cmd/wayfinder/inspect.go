package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/odvcencio/wayfinder/pkg/layout"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	styleHeader = lipgloss.NewStyle().Bold(true).Underline(true)
	styleHeadRw = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	styleHidden = lipgloss.NewStyle().Faint(true)
	styleGroup  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	layoutPath := fs.String("layout", "layout.yaml", "layout file to inspect")
	if err := fs.Parse(args); err != nil {
		return err
	}

	l, err := layout.Load(*layoutPath)
	if err != nil {
		return err
	}

	fmt.Println(styleTitle.Render(fmt.Sprintf("%s: %d regions", *layoutPath, len(l.Boxes))))
	fmt.Println()
	fmt.Println(styleHeader.Render(fmt.Sprintf("%-16s %-22s %-10s %-12s %s", "ID", "BOUNDS", "ROLE", "GROUP", "FLAGS")))

	for _, b := range l.Boxes {
		bounds := fmt.Sprintf("(%g,%g)-(%g,%g)", b.X, b.Y, b.X+b.W, b.Y+b.H)

		role := "leaf"
		group := ""
		switch {
		case b.Group != "" && b.Member != "":
			role = "head+child"
			group = b.Group + "/" + b.Member
		case b.Group != "":
			role = "head"
			group = b.Group
		case b.Member != "":
			role = "child"
			group = b.Member
		}

		flags := ""
		if b.Hidden {
			flags = "hidden"
		}

		line := fmt.Sprintf("%-16s %-22s %-10s %-12s %s", b.ID, bounds, role, group, flags)
		switch {
		case b.Hidden:
			line = styleHidden.Render(line)
		case b.Group != "":
			line = styleHeadRw.Render(line)
		}
		fmt.Println(line)
	}

	groups := l.Groups()
	if len(groups) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println(styleTitle.Render("groups"))
	sort.Strings(groups)
	for _, key := range groups {
		var members []string
		for _, b := range l.Boxes {
			if b.Member == key {
				members = append(members, b.ID)
			}
		}
		fmt.Printf("%s: %s\n", styleGroup.Render(key), strings.Join(members, ", "))
	}
	return nil
}
