package controllers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/bakery-admin-api/notifier"
)

// streamHeartbeat keeps idle SSE connections open through proxies
var streamHeartbeat = 15 * time.Second

type notificationCenter struct {
	poller *notifier.Poller
	alert  *notifier.AlertController
	alarm  *notifier.BroadcastAlarm
}

var notifications *notificationCenter

// InitNotifications wires the pending-order poller, its alert and the alarm browsers listen to
func InitNotifications(poller *notifier.Poller, alert *notifier.AlertController, alarm *notifier.BroadcastAlarm) {
	notifications = &notificationCenter{poller: poller, alert: alert, alarm: alarm}
}

func notificationsReady(c *gin.Context) (*notificationCenter, bool) {
	if notifications == nil {
		respondError(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Notifications are not configured")
		return nil, false
	}
	return notifications, true
}

func (n *notificationCenter) status() gin.H {
	return gin.H{
		"pending":   n.poller.Status(),
		"alert":     n.alert.Status(),
		"listeners": n.alarm.Listeners(),
	}
}

// GetNotificationStatus handles GET /api/v1/notifications/status
func GetNotificationStatus(c *gin.Context) {
	n, ok := notificationsReady(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, n.status())
}

// SilenceAlert handles POST /api/v1/notifications/silence - stops the sound, keeps the pending flag
func SilenceAlert(c *gin.Context) {
	n, ok := notificationsReady(c)
	if !ok {
		return
	}
	n.alert.Silence()
	respondData(c, http.StatusOK, n.status())
}

// ResumeAlert handles POST /api/v1/notifications/resume - plays the alert again while orders are pending
func ResumeAlert(c *gin.Context) {
	n, ok := notificationsReady(c)
	if !ok {
		return
	}

	if err := n.alert.Resume(c.Request.Context()); err != nil {
		switch {
		case errors.Is(err, notifier.ErrNothingPending):
			respondError(c, http.StatusConflict, "NOTHING_PENDING", "There are no pending orders")
		case errors.Is(err, notifier.ErrNoListeners):
			respondError(c, http.StatusConflict, "NO_LISTENERS", "No admin screen is connected to play the alert")
		default:
			_ = c.Error(err)
			respondError(c, http.StatusInternalServerError, "ALERT_ERROR", "Failed to resume the alert")
		}
		return
	}
	respondData(c, http.StatusOK, n.status())
}

// StreamAlarm handles GET /api/v1/notifications/stream - a Server-Sent Events feed of alarm commands.
// The browser plays, pauses and rewinds its audio element as commands arrive.
func StreamAlarm(c *gin.Context) {
	n, ok := notificationsReady(c)
	if !ok {
		return
	}

	commands, unsubscribe := n.alarm.Subscribe()
	defer unsubscribe()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("status", n.status())

	c.Stream(func(w io.Writer) bool {
		select {
		case cmd, open := <-commands:
			if !open {
				return false
			}
			c.SSEvent("alarm", cmd)
			return true
		case <-heartbeat.C:
			c.SSEvent("status", n.status())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
