package internal

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
)

// fakePager serves pages of one record each and fails at failAt when err
// is set.
type fakePager struct {
	cell    Cell
	account string
	pages   int
	failAt  int
	err     error
	block   bool
	i       int
}

func (p *fakePager) HasMorePages() bool {
	return p.i < p.pages
}

func (p *fakePager) NextPage(ctx context.Context) ([]*Record, error) {
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	i := p.i
	p.i++
	if p.err != nil && i == p.failAt {
		return nil, p.err
	}
	id := fmt.Sprintf("res-%d", i)
	return []*Record{NewRecord(NewKey(id, p.account, p.cell.Region)).Set("id", id)}, nil
}

type fakeSource struct {
	pages   int
	failAt  int
	pageErr map[string]error
	openErr error
	panicIn string
	block   string
	service string
}

func (s *fakeSource) Kind() string { return "fake" }

func (s *fakeSource) Service() string {
	if s.service == "" {
		return "ec2"
	}
	return s.service
}

func (s *fakeSource) Open(ctx context.Context, cell Cell, accountID string) (Pager, error) {
	if cell.Region == s.panicIn {
		panic("boom")
	}
	if s.openErr != nil {
		return nil, s.openErr
	}
	return &fakePager{
		cell:    cell,
		account: accountID,
		pages:   s.pages,
		failAt:  s.failAt,
		err:     s.pageErr[cell.Region],
		block:   cell.Region == s.block,
	}, nil
}

func testContext(profile string, account string, err error) Context {
	return NewContext(profile, aws.Config{}, func(ctx context.Context) (string, error) {
		return account, err
	})
}

func TestCollect(t *testing.T) {
	pageErr := errors.New("throttled")

	subtests := []struct {
		name        string
		context     Context
		source      *fakeSource
		wantStatus  OutcomeStatus
		wantStage   string
		wantRecords int
	}{
		{
			name:        "all pages",
			context:     testContext("p", "111111111111", nil),
			source:      &fakeSource{pages: 3},
			wantStatus:  OutcomeSucceeded,
			wantRecords: 3,
		},
		{
			name:        "no resources",
			context:     testContext("p", "111111111111", nil),
			source:      &fakeSource{pages: 0},
			wantStatus:  OutcomeSucceeded,
			wantRecords: 0,
		},
		{
			name:        "fails after first page",
			context:     testContext("p", "111111111111", nil),
			source:      &fakeSource{pages: 3, failAt: 1, pageErr: map[string]error{"us-east-1": pageErr}},
			wantStatus:  OutcomePartial,
			wantStage:   StagePage,
			wantRecords: 1,
		},
		{
			name:       "fails on first page",
			context:    testContext("p", "111111111111", nil),
			source:     &fakeSource{pages: 3, failAt: 0, pageErr: map[string]error{"us-east-1": pageErr}},
			wantStatus: OutcomeFailed,
			wantStage:  StagePage,
		},
		{
			name:       "identity lookup fails",
			context:    testContext("p", "", errors.New("expired token")),
			source:     &fakeSource{pages: 3},
			wantStatus: OutcomeFailed,
			wantStage:  StageIdentity,
		},
		{
			name:       "client cannot open",
			context:    testContext("p", "111111111111", nil),
			source:     &fakeSource{openErr: errors.New("bad endpoint")},
			wantStatus: OutcomeFailed,
			wantStage:  StageClient,
		},
	}

	for _, subtest := range subtests {
		t.Run(subtest.name, func(t *testing.T) {
			c := NewCollection("fake")
			outcome := Collect(context.Background(), Cell{Context: subtest.context, Region: "us-east-1"}, subtest.source, c)

			assert.Equal(t, subtest.wantStatus, outcome.Status)
			assert.Equal(t, subtest.wantStage, outcome.Stage)
			assert.Equal(t, subtest.wantRecords, outcome.Records)
			assert.Equal(t, subtest.wantRecords, c.Len())
			if subtest.wantStatus == OutcomeSucceeded {
				assert.NoError(t, outcome.Err)
			} else {
				assert.Error(t, outcome.Err)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	outcomes := []CellOutcome{
		{Status: OutcomeSucceeded},
		{Status: OutcomePartial},
		{Status: OutcomeFailed},
		{Status: OutcomeSkipped},
	}
	c := Summarize(outcomes)
	assert.Equal(t, 4, c.Total)
	assert.Equal(t, 2, c.Complete)
	assert.Equal(t, 1, c.Partial)
	assert.Equal(t, 1, c.Error)
	assert.Equal(t, 1, c.Skipped)

	assert.False(t, AllFailed(outcomes))
	assert.True(t, AllFailed([]CellOutcome{{Status: OutcomeFailed}, {Status: OutcomeSkipped}}))
	assert.False(t, AllFailed([]CellOutcome{{Status: OutcomeSkipped}}))
	assert.False(t, AllFailed(nil))
}
