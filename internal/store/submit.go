package store

import (
	"context"
	"fmt"
	"github.com/litetable/litetable-db/pkg/proto"
	"github.com/litetable/litetable-sink/internal/translator"
	"github.com/rs/zerolog/log"
)

type familyCells struct {
	family     string
	qualifiers []*proto.ColumnQualifier
}

// groupByFamily keeps the order in which families first appear.
func groupByFamily(cells []translator.Cell) []*familyCells {
	var groups []*familyCells
	index := make(map[string]*familyCells)
	for _, cell := range cells {
		g, ok := index[cell.Family]
		if !ok {
			g = &familyCells{family: cell.Family}
			index[cell.Family] = g
			groups = append(groups, g)
		}
		g.qualifiers = append(g.qualifiers, &proto.ColumnQualifier{
			Name:  cell.Qualifier,
			Value: cell.Value,
		})
	}
	return groups
}

// SubmitWrite writes req with one Write call per family. LiteTable has no key-only rows, so a
// request without cells is not sent.
func (c *Client) SubmitWrite(ctx context.Context, req *translator.WriteRequest) error {
	client, err := c.current()
	if err != nil {
		return err
	}

	if len(req.Cells) == 0 {
		log.Debug().Str("rowKey", string(req.RowKey)).Msg("write without cells not sent")
		return nil
	}

	ctx = c.outgoing(ctx)
	for _, g := range groupByFamily(req.Cells) {
		_, err = client.Write(ctx, &proto.WriteRequest{
			RowKey:     string(req.RowKey),
			Family:     g.family,
			Qualifiers: g.qualifiers,
		})
		if err != nil {
			return fmt.Errorf("write %s family %s: %w", req.RowKey, g.family, err)
		}
	}
	return nil
}

// SubmitDelete removes the row from every stored family.
func (c *Client) SubmitDelete(ctx context.Context, req *translator.DeleteRequest) error {
	client, err := c.current()
	if err != nil {
		return err
	}

	if len(c.target.Families) == 0 {
		log.Debug().Str("rowKey", string(req.RowKey)).Msg("delete without families not sent")
		return nil
	}

	ctx = c.outgoing(ctx)
	for _, fam := range c.target.Families {
		_, err = client.Delete(ctx, &proto.DeleteRequest{
			RowKey: string(req.RowKey),
			Family: fam,
			Ttl:    c.deleteTTL,
		})
		if err != nil {
			return fmt.Errorf("delete %s family %s: %w", req.RowKey, fam, err)
		}
	}
	return nil
}
