package common

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Interrupt blocks until SIGINT/SIGTERM arrives or cancel closes. It is
// meant to run as an actor in a `run.Group`.
func Interrupt(cancel <-chan struct{}) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-c:
		return fmt.Errorf("received signal %s", sig)
	case <-cancel:
		return errors.New("canceled")
	}
}
