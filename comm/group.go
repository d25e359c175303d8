/*
 * group.go, part of orbplot.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package comm

import (
	"context"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"
)

type op int

const (
	opSum op = iota
	opBarrier
)

func (o op) String() string {
	if o == opSum {
		return "AllReduceSum"
	}
	return "Barrier"
}

//round is one collective call, shared by all the ranks in the group.
//err and the reduced buffers are only read after done is closed.
type round struct {
	op      op
	bufs    [][]float64
	arrived int
	done    chan struct{}
	err     error
}

type group struct {
	ctx  context.Context
	size int
	mu   sync.Mutex
	cur  *round
}

func newGroup(ctx context.Context, size int) *group {
	return &group{ctx: ctx, size: size}
}

//collective registers the contribution of rank to the current round and
//waits until the round is completed by the last rank to arrive.
func (g *group) collective(ctx context.Context, o op, rank int, buf []float64) error {
	g.mu.Lock()
	if g.cur == nil {
		g.cur = &round{op: o, bufs: make([][]float64, g.size), done: make(chan struct{})}
	}
	r := g.cur
	if r.op != o && r.err == nil {
		r.err = Error{fmt.Sprintf("rank %d called %s while others are in %s", rank, o, r.op), nil}
	}
	r.bufs[rank] = buf
	r.arrived++
	if r.arrived == g.size {
		g.cur = nil
		if r.err == nil && r.op == opSum {
			r.err = r.sum()
		}
		close(r.done)
	}
	g.mu.Unlock()

	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return g.leave(r, rank, ctx.Err())
	case <-g.ctx.Done():
		return g.leave(r, rank, g.ctx.Err())
	}
}

//leave withdraws the buffer of rank from an unfinished round, so the round never
//writes to it after the rank returned. The round then fails for the other ranks.
func (g *group) leave(r *round, rank int, err error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	select {
	case <-r.done:
		return err
	default:
	}
	r.bufs[rank] = nil
	if r.err == nil {
		r.err = Error{fmt.Sprintf("rank %d left the %s round", rank, r.op), nil}
	}
	return err
}

//sum adds up the buffers in rank order and copies the result back into every
//one of them. The order of the additions is the same in every run.
func (r *round) sum() error {
	n := len(r.bufs[0])
	for i, b := range r.bufs {
		if len(b) != n {
			return Error{fmt.Sprintf("rank %d gave a buffer of length %d, rank 0 gave %d", i, len(b), n), nil}
		}
	}
	total := make([]float64, n)
	for _, b := range r.bufs {
		floats.Add(total, b)
	}
	for _, b := range r.bufs {
		copy(b, total)
	}
	return nil
}
