package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// CategoryAdd creates a category, deduplicating the slug when needed.
func (r *Runner) CategoryAdd(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openStore()
	if err != nil {
		return err
	}

	cat, err := s.AddCategory(cmd.String("user"), cmd.String("name"))
	if err != nil {
		return err
	}
	return r.writePlain("added category %s (%s)\n", cat.Name, cat.ID)
}

// CategoryList prints the user's categories in creation order.
func (r *Runner) CategoryList(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openStore()
	if err != nil {
		return err
	}

	for _, c := range s.ListCategories(cmd.String("user")) {
		if err := r.writePlain("%s (%s)\n", c.Name, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// CategoryRename changes a category's display name, keeping its id stable.
func (r *Runner) CategoryRename(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openStore()
	if err != nil {
		return err
	}

	id := cmd.String("id")
	ok, err := s.RenameCategory(cmd.String("user"), id, cmd.String("name"))
	if err != nil {
		return err
	}
	if !ok {
		return r.writePlain("category %s not found\n", id)
	}
	return r.writePlain("renamed category %s\n", id)
}

// CategoryDelete removes a category; its notes move to general.
func (r *Runner) CategoryDelete(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openStore()
	if err != nil {
		return err
	}

	id := cmd.String("id")
	ok, err := s.DeleteCategory(cmd.String("user"), id)
	if err != nil {
		return err
	}
	if !ok {
		return r.writePlain("category %s not found or protected\n", id)
	}
	return r.writePlain("deleted category %s, notes moved to general\n", id)
}
