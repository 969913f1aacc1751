package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) flushCache(ctx context.Context, userID string) error {
	if err := cli.svc.FlushUserCache(ctx, userID); err != nil {
		return err
	}
	fmt.Printf("flushed cached study plans of %s\n", userID)
	return nil
}

func (cli *commandLine) setStrength(ctx context.Context, userID string, courseID, strength int) error {
	rating, err := cli.svc.UpdateStrength(ctx, userID, courseID, strength)
	if err != nil {
		return err
	}
	fmt.Printf("%s strength set to %d\n", rating.CourseName, rating.Strength)
	return nil
}
