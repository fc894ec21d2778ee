package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/folkengine/goname"
	"github.com/hashicorp/go-hclog"
	"github.com/khnpedu/tension-meeting/config"
	"github.com/khnpedu/tension-meeting/globals"
	"github.com/khnpedu/tension-meeting/room"
	"github.com/khnpedu/tension-meeting/store"
	"github.com/khnpedu/tension-meeting/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// A very simple CLI tool for the administration of meeting rooms.

var (
	configPath = pflag.StringP("config", "c", "", "path to config file or directory")

	createTeams   int
	createMinutes int
)

func main() {
	log.SetFlags(0)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		<-c
		log.Fatal("interrupted!")
	}()

	flagSet := config.GetFlagSet()
	pflag.CommandLine.AddFlagSet(flagSet)

	pflag.Parse()

	cfg, err := config.ReadConfiguration(*configPath, flagSet)
	if err != nil {
		panic(err)
	}

	globals.AppLogger.SetLevel(hclog.LevelFromString(cfg.LogLevel))

	st, err := store.NewStore(cfg)
	if err != nil {
		panic(err)
	}
	defer st.Close()

	repo := room.NewRepository(st)

	var cmdShow = &cobra.Command{
		Use:   "show",
		Short: "Show rooms",
		Long:  `show is for printing room information.`,
		Args:  cobra.MinimumNArgs(0),
	}
	var cmdShowRooms = &cobra.Command{
		Use:   "rooms",
		Short: "Show rooms",
		Long:  `show rooms lists all available rooms.`,
		Args:  cobra.MinimumNArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			rooms, err := repo.List()
			if err != nil {
				globals.AppLogger.Error("could not get rooms", "error", err)
				return
			}
			r, err := json.Marshal(rooms)
			if err != nil {
				globals.AppLogger.Error("could not marshal rooms", "error", err)
				return
			}
			fmt.Println(string(r))
		},
	}
	var cmdShowRoom = &cobra.Command{
		Use:   "room [room id]",
		Short: "Show room",
		Long:  `show room prints detail information about the room with the given id.`,
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rm, err := repo.Get(args[0])
			if err != nil {
				globals.AppLogger.Error("could not get room", "error", err)
				return
			}
			r, err := json.Marshal(rm)
			if err != nil {
				globals.AppLogger.Error("could not marshal room", "error", err)
				return
			}
			fmt.Println(string(r))
		},
	}
	var cmdCreateRoom = &cobra.Command{
		Use:   "create [room name]",
		Short: "Create room",
		Long:  `create makes a new room. If no name is given, a random one is picked.`,
		Args:  cobra.MinimumNArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			if name == "" {
				name = goname.New(goname.FantasyMap).FirstLast()
			}
			rm, err := repo.CreateRoom(name, createTeams, createMinutes)
			if err != nil {
				globals.AppLogger.Error("could not create room", "error", err)
				return
			}
			r, err := json.Marshal(rm)
			if err != nil {
				globals.AppLogger.Error("could not marshal room", "error", err)
				return
			}
			fmt.Println(string(r))
		},
	}
	var cmdSet = &cobra.Command{
		Use:   "set",
		Short: "create/update room",
		Long:  `set creates or updates a room.`,
		Args:  cobra.MinimumNArgs(0),
	}
	var cmdSetRoom = &cobra.Command{
		Use:   "room [room definition]",
		Short: "Set room",
		Long:  `set room creates or updates a room. If the room definition is "-", the definition is read from STDIN.`,
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var r io.Reader
			if args[0] == "-" {
				r = os.Stdin
			} else {
				r = bytes.NewReader([]byte(args[0]))
			}
			dec := json.NewDecoder(r)
			rm := types.Room{}
			err := dec.Decode(&rm)
			if err != nil {
				globals.AppLogger.Error("could not decode room", "error", err)
				return
			}
			globals.AppLogger.Info("got room", "room", rm)
			if rm.Id == "" {
				globals.AppLogger.Error("no room id")
				return
			}
			if rm.CreatedAt.IsZero() {
				rm.CreatedAt = time.Now()
			}
			err = st.PutRoom(rm)
			if err != nil {
				globals.AppLogger.Error("could not store room", "error", err)
				return
			}
		},
	}
	var cmdDelete = &cobra.Command{
		Use:   "delete",
		Short: "delete room",
		Long:  `delete removes a room.`,
		Args:  cobra.MinimumNArgs(0),
	}
	var cmdDeleteRoom = &cobra.Command{
		Use:   "room [room id]",
		Short: "Delete room",
		Long:  `delete room removes the room with the given id.`,
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			err := repo.Delete(args[0])
			if err != nil {
				globals.AppLogger.Error("could not delete room", "error", err)
				return
			}
		},
	}
	var cmdStart = &cobra.Command{
		Use:   "start [room id]",
		Short: "Start meeting",
		Long:  `start begins the meeting in the given room and deals out the roles.`,
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			err := repo.StartMeeting(args[0])
			if err != nil {
				globals.AppLogger.Error("could not start meeting", "error", err)
				return
			}
		},
	}
	var cmdStop = &cobra.Command{
		Use:   "stop [room id]",
		Short: "Stop meeting",
		Long:  `stop ends the meeting in the given room and clears all roles.`,
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			err := repo.StopMeeting(args[0])
			if err != nil {
				globals.AppLogger.Error("could not stop meeting", "error", err)
				return
			}
		},
	}

	cmdCreateRoom.Flags().IntVar(&createTeams, "teams", 1, "number of teams")
	cmdCreateRoom.Flags().IntVar(&createMinutes, "minutes", 30, "meeting duration in minutes")

	var rootCmd = &cobra.Command{Use: "tension-meeting-admin"}
	rootCmd.AddCommand(cmdShow)
	rootCmd.AddCommand(cmdCreateRoom)
	rootCmd.AddCommand(cmdSet)
	rootCmd.AddCommand(cmdDelete)
	rootCmd.AddCommand(cmdStart)
	rootCmd.AddCommand(cmdStop)
	cmdShow.AddCommand(cmdShowRooms, cmdShowRoom)
	cmdSet.AddCommand(cmdSetRoom)
	cmdDelete.AddCommand(cmdDeleteRoom)
	rootCmd.Execute()
}
