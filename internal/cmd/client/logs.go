package client

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// NewLogCommand constructs the `log` command that buffers one chat line on
// the server.
func NewLogCommand(baseURL BaseURLFunc) *cobra.Command {
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Buffer one chat line on the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			room, _ := cmd.Flags().GetString("room")
			user, _ := cmd.Flags().GetString("user")
			message, _ := cmd.Flags().GetString("message")
			ts, _ := cmd.Flags().GetString("timestamp")
			if ts == "" {
				ts = strconv.FormatInt(time.Now().Unix(), 10)
			}
			status, err := postJSON(baseURL, "/v1/log", map[string]string{
				"timestamp": ts,
				"room":      room,
				"user":      user,
				"message":   message,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "status:", status)
			return nil
		},
	}
	logCmd.Flags().String("room", "", "Room id")
	logCmd.Flags().String("user", "", "User id")
	logCmd.Flags().String("message", "", "Message text")
	logCmd.Flags().String("timestamp", "", "Epoch seconds (default: now)")
	return logCmd
}

// NewLogsCommand constructs the `logs` command group and subcommands.
func NewLogsCommand(baseURL BaseURLFunc) *cobra.Command {
	logsCmd := &cobra.Command{Use: "logs", Short: "Chat-log queries"}

	logsCmd.AddCommand(
		newLineCountCommand(baseURL),
		newActivityCommand(baseURL),
		newUniqueCommand(baseURL),
		newSeenCommand(baseURL),
	)

	return logsCmd
}

func newLineCountCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linecount",
		Short: "Per-day line counts for a user in a room",
		RunE: func(cmd *cobra.Command, _ []string) error {
			room, _ := cmd.Flags().GetString("room")
			user, _ := cmd.Flags().GetString("user")
			q := url.Values{"room": {room}, "user": {user}}
			return getJSON(baseURL, "/v1/logs/linecount", q, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("room", "", "Room id")
	cmd.Flags().String("user", "", "User id")
	return cmd
}

func newActivityCommand(baseURL BaseURLFunc) *cobra.Command {
	activityCmd := &cobra.Command{Use: "activity", Short: "Activity summaries"}

	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Per-user line counts for a room, most active first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			room, _ := cmd.Flags().GetString("room")
			today, _ := cmd.Flags().GetBool("today")
			hour, _ := cmd.Flags().GetString("hour")
			filter, _ := cmd.Flags().GetString("filter")
			q := url.Values{"room": {room}}
			if today {
				q.Set("today", "true")
			}
			if hour != "" {
				q.Set("hour", hour)
			}
			if filter != "" {
				q.Set("filter", filter)
			}
			return getJSON(baseURL, "/v1/logs/activity/users", q, cmd.OutOrStdout())
		},
	}
	usersCmd.Flags().String("room", "", "Room id")
	usersCmd.Flags().Bool("today", false, "Count only today's lines")
	usersCmd.Flags().String("hour", "", "Count only lines logged in this hour (0-23)")
	usersCmd.Flags().String("filter", "", "CEL filter, e.g. 'count > 10'")

	roomCmd := &cobra.Command{
		Use:   "room",
		Short: "Hour-of-day line histogram for a room",
		RunE: func(cmd *cobra.Command, _ []string) error {
			room, _ := cmd.Flags().GetString("room")
			filter, _ := cmd.Flags().GetString("filter")
			q := url.Values{"room": {room}}
			if filter != "" {
				q.Set("filter", filter)
			}
			return getJSON(baseURL, "/v1/logs/activity/room", q, cmd.OutOrStdout())
		},
	}
	roomCmd.Flags().String("room", "", "Room id")
	roomCmd.Flags().String("filter", "", "CEL filter, e.g. 'hour >= 18'")

	activityCmd.AddCommand(usersCmd, roomCmd)
	return activityCmd
}

func newUniqueCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unique",
		Short: "Count distinct users ever logged in a room",
		RunE: func(cmd *cobra.Command, _ []string) error {
			room, _ := cmd.Flags().GetString("room")
			q := url.Values{"room": {room}}
			return getJSON(baseURL, "/v1/logs/users/unique", q, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("room", "", "Room id")
	return cmd
}

func newSeenCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seen",
		Short: "Last time a user was seen, epoch ms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, _ := cmd.Flags().GetString("user")
			q := url.Values{"user": {user}}
			return getJSON(baseURL, "/v1/logs/seen", q, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("user", "", "User id")
	return cmd
}

// NewRoomsCommand constructs the `rooms` command listing known rooms.
func NewRoomsCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List rooms with logged activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return getJSON(baseURL, "/v1/rooms", nil, cmd.OutOrStdout())
		},
	}
}
