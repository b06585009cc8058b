package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// pageIterator matches the generated EC2 paginators.
type pageIterator[Output any] interface {
	HasMorePages() bool
	NextPage(ctx context.Context, optFns ...func(*ec2.Options)) (Output, error)
}

func collectPages[Output any, Item any](
	ctx context.Context,
	pages pageIterator[Output],
	extract func(Output) []Item,
) ([]Item, error) {
	var items []Item
	for n := 1; pages.HasMorePages(); n++ {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}
		items = append(items, extract(page)...)
	}
	return items, nil
}
