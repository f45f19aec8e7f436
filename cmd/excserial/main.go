// Command excserial streams framed pulse values to a serial port at a fixed rate.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/AndFroSwe/ExcSerial/internal/led"
	"github.com/AndFroSwe/ExcSerial/internal/mqtt"
	"github.com/AndFroSwe/ExcSerial/internal/pulse"
	"github.com/AndFroSwe/ExcSerial/internal/serialport"
	"github.com/AndFroSwe/ExcSerial/internal/status"
	"github.com/AndFroSwe/ExcSerial/internal/stop"
	"github.com/AndFroSwe/ExcSerial/internal/web"
)

func main() {
	baud := flag.Int("baud", serialport.DefaultBaud, "serial baud rate")
	statusEvery := flag.Duration("status", 2*time.Second, "progress report interval")
	broker := flag.String("broker", "", "MQTT broker address (empty to disable)")
	httpAddr := flag.String("http", "", "HTTP status address (empty to disable)")
	ledPin := flag.Int("led-pin", -1, "BCM pin number for the TX activity LED (-1 to disable)")
	profileDir := flag.String("profile", "", "write a CPU profile to this directory")
	flag.Usage = usage
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if flag.NArg() < 3 {
		// Help output, not an error: print to stdout and exit 0.
		flag.CommandLine.SetOutput(os.Stdout)
		usage()
		return
	}

	// The profiler's own interrupt hook would exit before the graceful
	// shutdown path runs, so it is disabled and stopped explicitly.
	var stopProfile func()
	if *profileDir != "" {
		p := profile.Start(profile.ProfilePath(*profileDir), profile.NoShutdownHook)
		stopProfile = p.Stop
	}

	err := run(flag.Arg(0), flag.Arg(1), flag.Arg(2), *baud, *statusEvery, *broker, *httpAddr, *ledPin, log)

	if stopProfile != nil {
		stopProfile()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "Usage: excserial [flags] <port> <magnitude> <rate-hz>\n\n")
	fmt.Fprintf(w, "Streams pulse frames (\"#v,v,v,v;\") to a serial port at a fixed rate,\n")
	fmt.Fprintf(w, "alternating the sign of the value on every message.\n\n")
	fmt.Fprintf(w, "  <port>       serial device, e.g. /dev/ttyUSB0\n")
	fmt.Fprintf(w, "  <magnitude>  pulse amplitude (non-zero integer)\n")
	fmt.Fprintf(w, "  <rate-hz>    messages per second, 1 to %d\n\n", pulse.MaxRateHz)
	fmt.Fprintf(w, "Example: excserial /dev/ttyUSB0 10 500  streams +/-10 at 500 Hz\n\n")
	fmt.Fprintf(w, "Flags:\n")
	flag.PrintDefaults()
}

// parseIntArg parses a positional argument, naming it in the error.
func parseIntArg(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("argument %s: %q is not a number", name, value)
	}
	return n, nil
}

func run(portName, magArg, rateArg string, baud int, statusEvery time.Duration, broker, httpAddr string, ledPin int, log zerolog.Logger) error {
	magnitude, err := parseIntArg("magnitude", magArg)
	if err != nil {
		return err
	}
	if magnitude == 0 {
		return errors.New("argument magnitude: must be non-zero")
	}
	if magnitude == math.MinInt {
		// Negating it overflows, so the sign could never alternate.
		return errors.New("argument magnitude: out of range")
	}

	rateHz, err := parseIntArg("rate-hz", rateArg)
	if err != nil {
		return err
	}

	// Validate the rate before touching the port so a bad rate never
	// opens the device.
	cad, err := pulse.NewCadence(rateHz)
	if err != nil {
		return err
	}

	log.Info().Str("port", portName).Msg("starting")

	port, err := serialport.Open(portName, baud)
	if err != nil {
		return err
	}
	defer port.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		Port:      port.Name(),
		Baud:      baud,
		Magnitude: magnitude,
		RateHz:    rateHz,
		PeriodMs:  cad.Period().Milliseconds(),
		StatusMs:  statusEvery.Milliseconds(),
		Broker:    broker,
		HTTPAddr:  httpAddr,
		LEDPin:    ledPin,
	})

	emitters := status.Fanout{status.NewConsoleEmitter(log)}

	if broker != "" {
		pub, err := mqtt.NewPublisher(broker, "excserial", tracker, log)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer pub.Close()
		emitters = append(emitters, pub)
	}

	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", httpAddr).Msg("http status server listening")
	}

	if ledPin >= 0 {
		line, err := led.OpenLine(ledPin)
		if err != nil {
			log.Warn().Err(err).Int("pin", ledPin).Msg("activity led unavailable")
		} else {
			activity := led.NewActivity(line, tracker, 50*time.Millisecond)
			activity.Start()
			defer func() {
				activity.Stop()
				line.Close()
			}()
		}
	}

	tx := pulse.NewTransmitter(magnitude, port)

	stopFlag := stop.NewFlag()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go watchSignals(sigCh, stopFlag, log)

	emit(emitters, status.Event{
		Timestamp: time.Now(),
		Kind:      status.KindConfigured,
		Port:      port.Name(),
	}, log)
	emit(emitters, status.Event{
		Timestamp: time.Now(),
		Kind:      status.KindSending,
		Port:      port.Name(),
		Magnitude: magnitude,
		RateHz:    rateHz,
		PeriodMs:  cad.Period().Milliseconds(),
	}, log)

	return runLoop(cad, tx, stopFlag, emitters, tracker, statusEvery, time.Now, log)
}

func runLoop(cad *pulse.Cadence, tx *pulse.Transmitter, stopFlag *stop.Flag, em status.Emitter, tracker *status.Tracker, statusEvery time.Duration, now func() time.Time, log zerolog.Logger) error {
	tracker.SetState(status.StateRunning)

	var sent uint64
	lastStatus := now()

	for {
		if stopFlag.Requested() {
			tracker.SetState(status.StateStopping)
			emit(em, status.Event{
				Timestamp:    now(),
				Kind:         status.KindShuttingDown,
				MessagesSent: sent,
			}, log)
			tracker.SetState(status.StateTerminated)
			return nil
		}

		fireAt := cad.Wait()

		if err := tx.Send(); err != nil {
			tracker.SetState(status.StateTerminated)
			emit(em, status.Event{
				Timestamp:    now(),
				Kind:         status.KindTransmitFailed,
				MessagesSent: sent,
				Description:  err.Error(),
			}, log)
			return err
		}

		sent++
		tracker.RecordSend(sent, fireAt)

		if fireAt.Sub(lastStatus) > statusEvery {
			emit(em, status.Event{
				Timestamp:    fireAt,
				Kind:         status.KindProgress,
				MessagesSent: sent,
			}, log)
			lastStatus = fireAt
		}
	}
}

func watchSignals(sigCh <-chan os.Signal, stopFlag *stop.Flag, log zerolog.Logger) {
	for s := range sigCh {
		log.Info().Str("signal", s.String()).Msg("signal received")
		stopFlag.Request()
	}
}

func emit(em status.Emitter, ev status.Event, log zerolog.Logger) {
	if err := em.Emit(ev); err != nil {
		log.Warn().Err(err).Str("kind", string(ev.Kind)).Msg("status emit failed")
	}
}
