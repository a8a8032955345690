package notifications

import (
	"fmt"
	"html"
	"strings"

	"github.com/DINUSHA26/PrimeAuto/internal/domain"
)

const longDateFormat = "Monday, 02 Jan 2006"

// message текст уведомления для письма и SMS
type message struct {
	Subject string
	Plain   string
	HTML    string
	SMS     string
}

func createdMessage(b *domain.Booking) message {
	return buildMessage(b,
		fmt.Sprintf("Booking received: %s on %s", b.ServiceName, b.BookingDate.Format(domain.DateFormat)),
		"Thank you for booking with PrimeAuto. Your appointment is reserved.",
		fmt.Sprintf("PrimeAuto: %s booked for %s at %s, bay %d. Ref #%d",
			b.ServiceName, b.BookingDate.Format(domain.DateFormat), displayTime(b), b.BayNumber, b.ID),
	)
}

func cancelledMessage(b *domain.Booking) message {
	return buildMessage(b,
		fmt.Sprintf("Booking cancelled: %s on %s", b.ServiceName, b.BookingDate.Format(domain.DateFormat)),
		"Your appointment has been cancelled. Book again any time on our website.",
		fmt.Sprintf("PrimeAuto: booking #%d for %s at %s was cancelled.",
			b.ID, b.BookingDate.Format(domain.DateFormat), displayTime(b)),
	)
}

func statusMessage(b *domain.Booking) message {
	var intro string
	switch b.Status {
	case domain.StatusConfirmed:
		intro = "Your appointment has been confirmed by our service desk."
	case domain.StatusInProgress:
		intro = "Our technicians have started working on your vehicle."
	case domain.StatusCompleted:
		intro = "The work on your vehicle is complete. It is ready for pickup."
	default:
		intro = fmt.Sprintf("Your booking status is now %s.", b.Status)
	}

	return buildMessage(b,
		fmt.Sprintf("Booking #%d is %s", b.ID, b.Status),
		intro,
		fmt.Sprintf("PrimeAuto: booking #%d is %s.", b.ID, b.Status),
	)
}

func reminderMessage(b *domain.Booking) message {
	return buildMessage(b,
		fmt.Sprintf("Reminder: %s tomorrow at %s", b.ServiceName, displayTime(b)),
		"This is a reminder of your appointment tomorrow. Please arrive 10 minutes early.",
		fmt.Sprintf("PrimeAuto reminder: %s tomorrow at %s, bay %d.", b.ServiceName, displayTime(b), b.BayNumber),
	)
}

func buildMessage(b *domain.Booking, subject, intro, sms string) message {
	details := [][2]string{
		{"Reference", fmt.Sprintf("#%d", b.ID)},
		{"Service", b.ServiceName},
		{"Date", b.BookingDate.Format(longDateFormat)},
		{"Time", displayTime(b)},
		{"Bay", fmt.Sprintf("%d", b.BayNumber)},
		{"Vehicle", b.VehicleNumber},
	}

	var plain, rich strings.Builder
	fmt.Fprintf(&plain, "Hello %s,\n\n%s\n\n", b.CustomerName, intro)
	fmt.Fprintf(&rich, "<p>Hello %s,</p><p>%s</p><table>", html.EscapeString(b.CustomerName), html.EscapeString(intro))
	for _, d := range details {
		fmt.Fprintf(&plain, "%s: %s\n", d[0], d[1])
		fmt.Fprintf(&rich, "<tr><td>%s</td><td>%s</td></tr>", d[0], html.EscapeString(d[1]))
	}
	rich.WriteString("</table><p>PrimeAuto Service Center</p>")
	plain.WriteString("\nPrimeAuto Service Center\n")

	return message{Subject: subject, Plain: plain.String(), HTML: rich.String(), SMS: sms}
}

func displayTime(b *domain.Booking) string {
	return b.StartTime.Format(domain.DisplayTimeFormat)
}
