package services

import (
	"context"
	"errors"
	"iter"
	"time"

	"golang.org/x/time/rate"
)

// ErrPagerDone is returned by [Pager.Next] once the last page has been returned or a request failed.
var ErrPagerDone = errors.New("pager: no more pages")

// Pager walks a cursor-paginated collection one page at a time.
//
// A Pager is not safe for concurrent use and cannot be restarted.
type Pager struct {
	svc     *SpotifyService
	next    string
	done    bool
	pages   int
	limiter *rate.Limiter
}

func newPager(svc *SpotifyService, first string, delay time.Duration) *Pager {
	p := &Pager{svc: svc, next: first}
	if delay > 0 {
		p.limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	return p
}

// Done reports whether the sequence is exhausted.
func (p *Pager) Done() bool { return p.done }

// Pages returns the number of pages fetched so far.
func (p *Pager) Pages() int { return p.pages }

// Next fetches the next page.
//
// After the page without a next URL has been returned, or after any request
// error, the pager is done and Next returns [ErrPagerDone].
func (p *Pager) Next(ctx context.Context) (*PlaylistTrackPage, error) {
	if p.done {
		return nil, ErrPagerDone
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var page PlaylistTrackPage
	if err := p.svc.doRequest(ctx, p.next, &page); err != nil {
		p.done = true
		return nil, err
	}
	p.pages++

	if page.HasNext() {
		p.next = *page.Next
	} else {
		p.done = true
		p.next = ""
	}

	return &page, nil
}

// All yields every remaining page in order. It stops after the last page or after yielding the first error.
func (p *Pager) All(ctx context.Context) iter.Seq2[*PlaylistTrackPage, error] {
	return func(yield func(*PlaylistTrackPage, error) bool) {
		for !p.done {
			page, err := p.Next(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(page, nil) {
				return
			}
		}
	}
}
