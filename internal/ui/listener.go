package ui

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"os"
	"sync"

	"codeberg.org/mutker/kweeb/internal/errors"
	"codeberg.org/mutker/kweeb/internal/logger"
)

const maxLine = 64 * 1024

// Listen accepts daemon connections on socket and calls fn for every
// message received, until ctx is cancelled. A stale socket file is removed
// first. fn may be called from several goroutines.
func Listen(ctx context.Context, socket string, log logger.Logger, fn func(Message)) error {
	if socket == "" {
		socket = DefaultSocket
	}
	if err := os.Remove(socket); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(ErrListen, err)
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "unix", socket)
	if err != nil {
		return errors.New().Wrap(ErrListen, err)
	}

	var wg sync.WaitGroup
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	log.Info().Str("socket", socket).Msg("Listening for metrics updates")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				wg.Wait()
				return nil
			}
			return errors.New().Wrap(ErrListen, err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			serve(ctx, conn, log, fn)
		}()
	}
}

func serve(ctx context.Context, conn net.Conn, log logger.Logger, fn func(Message)) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), maxLine)
	for scanner.Scan() {
		var msg Message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			log.Debug().Err(err).Msg("Ignoring malformed metrics update")
			continue
		}
		fn(msg)
	}
}
