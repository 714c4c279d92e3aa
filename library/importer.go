package library

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Bulk import of the legacy line-oriented exchange format: one record per
// line, fields as "key=value, key=value". The importer only parses; loading
// goes through the same admin paths as interactive entry.

// parseRecordLine splits one line into its key/value fields. Malformed
// fields (no '=') are skipped, matching the tolerant legacy reader.
func parseRecordLine(line string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(line, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}

// ParseBookRecord builds a Book from one record line. Physical records need
// copy counts; digital records ("EBook", "Audio Book") take a format field.
func ParseBookRecord(line string) (Book, error) {
	fields := parseRecordLine(line)
	b := Book{
		Title:     fields["title"],
		Author:    fields["author"],
		Publisher: fields["publisher"],
		Category:  fields["category"],
	}
	if b.Title == "" {
		return Book{}, fmt.Errorf("book record has no title: %q", line)
	}
	if y := fields["publicationYear"]; y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return Book{}, fmt.Errorf("book %q: bad publicationYear %q", b.Title, y)
		}
		b.Year = year
	}

	switch fields["bookType"] {
	case "Physical Book":
		b.Kind = BookPhysical
		total, err := strconv.Atoi(fields["totalCopies"])
		if err != nil || total < 1 {
			return Book{}, fmt.Errorf("book %q: bad totalCopies %q", b.Title, fields["totalCopies"])
		}
		b.TotalCopies = total
		b.AvailableCopies = total
	case "EBook":
		b.Kind = BookDigital
		b.Format = fields["fileFormat"]
	case "Audio Book":
		b.Kind = BookDigital
		b.Format = fields["audioFormat"]
	default:
		return Book{}, fmt.Errorf("book %q: unknown bookType %q", b.Title, fields["bookType"])
	}
	return b, nil
}

// ParseMemberRecord builds a Member from one record line. Unknown categories
// resolve to Regular like everywhere else; status defaults to Active.
func ParseMemberRecord(line string) (Member, error) {
	fields := parseRecordLine(line)
	m := Member{
		Name:     fields["name"],
		Email:    fields["email"],
		Category: MemberCategory(fields["memberType"]),
		Status:   StatusActive,
	}
	if m.Name == "" {
		return Member{}, fmt.Errorf("member record has no name: %q", line)
	}
	switch m.Category {
	case CategoryStudent, CategoryFaculty, CategoryRegular:
	default:
		m.Category = CategoryRegular
	}
	if s := fields["membershipStatus"]; s != "" {
		switch MemberStatus(s) {
		case StatusActive, StatusSuspended, StatusExpired:
			m.Status = MemberStatus(s)
		default:
			return Member{}, fmt.Errorf("member %q: unknown membershipStatus %q", m.Name, s)
		}
	}
	if f := fields["totalFineAmount"]; f != "" {
		fine, err := strconv.ParseFloat(f, 64)
		if err != nil || fine < 0 {
			return Member{}, fmt.Errorf("member %q: bad totalFineAmount %q", m.Name, f)
		}
		m.FineAmount = fine
	}
	return m, nil
}

// ImportBooks reads book records from r and adds them to the catalog in one
// commit. The count of imported books is returned; the first malformed line
// aborts the import before anything is written.
func (l *Library) ImportBooks(r io.Reader) (int, error) {
	var books []Book
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		b, err := ParseBookRecord(line)
		if err != nil {
			return 0, err
		}
		books = append(books, b)
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}

	prev := l.snapshot()
	for _, b := range books {
		l.books.add(b)
	}
	if err := l.commit(prev); err != nil {
		return 0, err
	}
	return len(books), nil
}

// ImportMembers reads member records from r and registers them in one
// commit. Imported members have no password until one is set.
func (l *Library) ImportMembers(r io.Reader) (int, error) {
	var members []Member
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		m, err := ParseMemberRecord(line)
		if err != nil {
			return 0, err
		}
		members = append(members, m)
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}

	now := l.now()
	prev := l.snapshot()
	for _, m := range members {
		m.JoinedAt = now
		l.members.add(m)
	}
	if err := l.commit(prev); err != nil {
		return 0, err
	}
	return len(members), nil
}
