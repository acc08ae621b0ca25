// Package socket expone el despachador de comandos sobre TCP: una línea de solicitud
// ("COMANDO[ JSON]\n") y una línea de respuesta por conexión.
package socket

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-server/internal/domain"
	"github.com/jhoicas/estoque-server/internal/interfaces/command"
	"github.com/jhoicas/estoque-server/pkg/config"
	"github.com/jhoicas/estoque-server/pkg/logger"
)

const (
	rejectWriteTimeout = time.Second
	maxAcceptBackoff   = time.Second
	drainTimeout       = 200 * time.Millisecond
	drainLimit         = 1 << 20
)

// Dispatcher ejecuta un comando ya interpretado.
type Dispatcher interface {
	Dispatch(ctx context.Context, req command.Request) command.Response
}

// Server servidor de comandos con un número fijo de sesiones simultáneas.
type Server struct {
	addr            string
	requestTimeout  time.Duration
	maxRequestBytes int

	dispatcher Dispatcher
	log        *logger.Logger

	slots chan struct{}
	wg    sync.WaitGroup
}

// NewServer construye el servidor a partir de la configuración del socket.
func NewServer(cfg config.SocketConfig, dispatcher Dispatcher, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = 1
	}
	return &Server{
		addr:            cfg.Addr(),
		requestTimeout:  cfg.RequestTimeout,
		maxRequestBytes: cfg.MaxRequestBytes,
		dispatcher:      dispatcher,
		log:             log,
		slots:           make(chan struct{}, maxConns),
	}
}

// ListenAndServe escucha en la dirección configurada hasta que ctx se cancele.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("socket listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve acepta conexiones de ln. Al cancelar ctx cierra el listener, espera las
// sesiones en curso y devuelve nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Info().Str("addr", ln.Addr().String()).Int("max_connections", cap(s.slots)).Msg("servidor de comandos escutando")

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else {
				backoff = min(backoff*2, maxAcceptBackoff)
			}
			s.log.Error().Err(err).Dur("retry_in", backoff).Msg("falha ao aceitar conexão")
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		select {
		case s.slots <- struct{}{}:
			s.wg.Add(1)
			go s.serveConn(ctx, conn)
		default:
			s.reject(conn)
		}
	}

	s.wg.Wait()
	s.log.Info().Msg("servidor de comandos encerrado")
	return nil
}

// reject responde "servidor ocupado" sin ocupar un slot.
func (s *Server) reject(conn net.Conn) {
	s.log.Warn().Str("remote", conn.RemoteAddr().String()).Msg("conexão recusada: limite de sessões atingido")
	_ = conn.SetWriteDeadline(time.Now().Add(rejectWriteTimeout))
	_, _ = io.WriteString(conn, command.MsgServerBusy+"\n")
	_ = conn.Close()
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer func() {
		_ = conn.Close()
		<-s.slots
		s.wg.Done()
	}()

	sess := s.log.Child(s.log.With().
		Str("session_id", uuid.NewString()).
		Str("remote", conn.RemoteAddr().String()))

	// Las sesiones en curso terminan aunque el servidor se esté apagando; el límite es el deadline.
	deadline := time.Now().Add(s.requestTimeout)
	reqCtx, cancel := context.WithDeadline(context.WithoutCancel(ctx), deadline)
	defer cancel()
	reqCtx = sess.WithContext(reqCtx)
	_ = conn.SetReadDeadline(deadline)

	line, err := s.readRequest(conn)
	if err != nil {
		var ne net.Error
		switch {
		case errors.As(err, &ne) && ne.Timeout():
			sess.Warn().Msg("tempo limite aguardando comando")
			s.write(sess, conn, command.MsgTimeout)
		case errors.Is(err, domain.ErrProtocol):
			sess.Warn().Err(err).Msg("requisição inválida")
			s.write(sess, conn, command.ErrorStatus(err))
			drain(conn)
		default:
			sess.Debug().Err(err).Msg("conexão encerrada sem comando")
		}
		return
	}

	req, err := command.ParseLine(line)
	if err != nil {
		sess.Warn().Err(err).Msg("requisição inválida")
		s.write(sess, conn, command.ErrorStatus(err))
		return
	}

	resp := s.dispatcher.Dispatch(reqCtx, req)
	out, err := resp.Encode()
	if err != nil {
		sess.Error().Err(err).Str("command", req.Command).Msg("falha ao serializar resposta")
		out = []byte(command.MsgInternal)
	}
	s.write(sess, conn, string(out))
}

// readRequest lee una línea de hasta maxRequestBytes, sin contar el "\r\n" final.
// EOF tras datos cuenta como fin de línea.
func (s *Server) readRequest(conn net.Conn) (string, error) {
	limit := int64(s.maxRequestBytes) + 2
	r := bufio.NewReader(io.LimitReader(conn, limit))
	line, err := r.ReadString('\n')
	if len(strings.TrimRight(line, "\r\n")) > s.maxRequestBytes {
		return "", domain.Protocol(fmt.Sprintf("requisição excede %d bytes", s.maxRequestBytes))
	}
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return line, nil
		}
		return "", err
	}
	return line, nil
}

// drain descarta lo que el cliente siga enviando para cerrar con FIN y no con RST.
func drain(conn net.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(drainTimeout))
	_, _ = io.Copy(io.Discard, io.LimitReader(conn, drainLimit))
}

func (s *Server) write(log *logger.Logger, conn net.Conn, msg string) {
	_ = conn.SetWriteDeadline(time.Now().Add(s.requestTimeout))
	if _, err := io.WriteString(conn, msg+"\n"); err != nil {
		log.Warn().Err(err).Msg("falha ao enviar resposta")
	}
}
