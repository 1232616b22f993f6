package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"git.lost.host/meutraa/judgeline/internal/config"
	"git.lost.host/meutraa/judgeline/internal/history"
	"git.lost.host/meutraa/judgeline/internal/input"
	"git.lost.host/meutraa/judgeline/internal/loader"
	"git.lost.host/meutraa/judgeline/internal/render"
	"git.lost.host/meutraa/judgeline/internal/theme"
	"git.lost.host/meutraa/judgeline/internal/timing"
	"github.com/eiannone/keyboard"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatalln(err)
	}
}

func run(args []string) error {
	if err := config.Parse(args); nil != err {
		return err
	}

	logFile, err := os.OpenFile(*config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if nil != err {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	info, err := config.Discover(*config.Directory)
	if nil != err {
		return err
	}
	info.Apply()

	// Loading starts before the terminal is taken over
	l := loader.Start(loader.Request{
		FS:           loader.DirFS(*config.Directory),
		Format:       info.Format,
		Chart:        info.Chart,
		Music:        info.Music,
		Illustration: info.Illustration,
		Speed:        info.Speed,
	})

	store, err := history.Open("judgeline")
	if nil != err {
		return err
	}
	defer store.Close()

	keyChannel, err := keyboard.GetKeys(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			log.Println("unable to close keyboard", err)
		}
	}()
	keys := input.NewKeyboard(keyChannel, config.Keys, config.Release.Seconds(), timing.Monotonic())

	events := make(chan Event, 1)
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGUSR1)
	defer signal.Stop(signals)
	go func() {
		for range signals {
			select {
			case events <- Suspended:
			default:
			}
		}
	}()

	r := &render.DefaultRenderer{}
	p := NewProgram(info, l, keys, events, store)
	p.Scene = render.Scene{R: r, Theme: &theme.DefaultTheme{}}
	p.Delay = config.Delay.Seconds()
	p.Step = config.SeekStep.Seconds()

	if err := r.Init(); nil != err {
		return fmt.Errorf("unable to set up the terminal: %w", err)
	}
	r.RenderLoop(*config.FramePeriod, p.Frame)
	if err := r.Deinit(); nil != err {
		log.Println("unable to restore the terminal", err)
	}

	if nil != p.music {
		if err := p.music.Close(); nil != err {
			log.Println("unable to close music", err)
		}
	}
	if err := p.Err(); nil != err {
		return err
	}
	fmt.Print(p.Summary())
	return nil
}
