// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bridgewatch/solvencyd/chain"
	"github.com/bridgewatch/solvencyd/fault"
	"github.com/bridgewatch/solvencyd/util"
)

const alertsQuery = `query recentAlerts($input: AlertsInput) {
  alerts(input: $input) {
    pageInfo {
      hasNextPage
      endCursor {
        alertId
        blockNumber
      }
    }
    alerts {
      alertId
      source {
        bot {
          id
        }
        block {
          number
          chainId
        }
      }
      metadata
    }
  }
}`

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type blockRange struct {
	StartBlockNumber uint64 `json:"startBlockNumber"`
	EndBlockNumber   uint64 `json:"endBlockNumber"`
}

type alertsInput struct {
	BotIDs           []string    `json:"botIds,omitempty"`
	AlertID          string      `json:"alertId"`
	First            int         `json:"first"`
	BlockNumberRange blockRange  `json:"blockNumberRange"`
	After            *wireCursor `json:"after,omitempty"`
}

type wireCursor struct {
	AlertID     string      `json:"alertId"`
	BlockNumber json.Number `json:"blockNumber"`
}

type graphqlReply struct {
	Data struct {
		Alerts struct {
			PageInfo struct {
				HasNextPage bool        `json:"hasNextPage"`
				EndCursor   *wireCursor `json:"endCursor"`
			} `json:"pageInfo"`
			Alerts []struct {
				AlertID string `json:"alertId"`
				Source  struct {
					Bot struct {
						ID string `json:"id"`
					} `json:"bot"`
					Block struct {
						Number  json.Number `json:"number"`
						ChainID json.Number `json:"chainId"`
					} `json:"block"`
				} `json:"source"`
				Metadata map[string]interface{} `json:"metadata"`
			} `json:"alerts"`
		} `json:"alerts"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// GraphQLClient - facts from an alert API speaking the alerts GraphQL query
type GraphQLClient struct {
	log    *logger.L
	url    string
	client *http.Client
}

// NewGraphQLClient - client for the API at url
func NewGraphQLClient(log *logger.L, url string, timeout time.Duration) (*GraphQLClient, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fault.InvalidURL
	}
	return &GraphQLClient{
		log: log,
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Query - one page of facts
func (c *GraphQLClient) Query(ctx context.Context, q Query) (Page, error) {
	q, err := q.Normalise()
	if nil != err {
		return Page{}, err
	}

	input := alertsInput{
		AlertID: q.AlertID,
		First:   q.First,
		BlockNumberRange: blockRange{
			StartBlockNumber: q.StartBlock,
			EndBlockNumber:   q.EndBlock,
		},
	}
	if "" != q.Source {
		input.BotIDs = []string{q.Source}
	}
	if nil != q.After {
		input.After = &wireCursor{
			AlertID:     q.After.AlertID,
			BlockNumber: json.Number(strconv.FormatUint(q.After.BlockNumber, 10)),
		}
	}

	request := graphqlRequest{
		Query: alertsQuery,
		Variables: map[string]interface{}{
			"input": input,
		},
	}

	var reply graphqlReply
	err = util.PostJSON(ctx, c.client, c.url, request, &reply)
	if nil != err {
		return Page{}, err
	}
	if 0 != len(reply.Errors) {
		return Page{}, fmt.Errorf("graphql: %s", reply.Errors[0].Message)
	}

	result := reply.Data.Alerts
	page := Page{
		Facts:       make([]Fact, 0, len(result.Alerts)),
		HasNextPage: result.PageInfo.HasNextPage,
	}
	for _, a := range result.Alerts {
		block, err := parseUint(a.Source.Block.Number)
		if nil != err {
			c.log.Warnf("alert: %s  bad block number: %q", a.AlertID, a.Source.Block.Number)
			continue
		}
		chainID, _ := parseUint(a.Source.Block.ChainID)
		page.Facts = append(page.Facts, Fact{
			AlertID:     a.AlertID,
			Source:      a.Source.Bot.ID,
			ChainID:     chain.ID(chainID),
			BlockNumber: block,
			Metadata:    stringMetadata(a.Metadata),
		})
	}

	if cursor := result.PageInfo.EndCursor; nil != cursor {
		block, err := parseUint(cursor.BlockNumber)
		if nil == err {
			page.EndCursor = Cursor{
				AlertID:     cursor.AlertID,
				BlockNumber: block,
			}
		}
	}
	c.log.Debugf("query: %s  blocks: %d..%d  facts: %d", q.AlertID, q.StartBlock, q.EndBlock, len(page.Facts))
	return page, nil
}

func parseUint(n json.Number) (uint64, error) {
	return strconv.ParseUint(n.String(), 10, 64)
}

// metadata values arrive as strings or raw JSON numbers
func stringMetadata(m map[string]interface{}) map[string]string {
	result := make(map[string]string, len(m))
	for k, v := range m {
		switch value := v.(type) {
		case string:
			result[k] = value
		case json.Number:
			result[k] = value.String()
		case nil:
		default:
			buffer, err := json.Marshal(value)
			if nil == err {
				result[k] = string(buffer)
			}
		}
	}
	return result
}
