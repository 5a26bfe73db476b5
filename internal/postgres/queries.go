package postgres

const schemaEvents = `
	CREATE TABLE IF NOT EXISTS room_events (
		seq            BIGSERIAL PRIMARY KEY,
		id             UUID        NOT NULL UNIQUE,
		room_id        TEXT        NOT NULL,
		kind           TEXT        NOT NULL,
		participant_id TEXT        NOT NULL,
		text           TEXT        NOT NULL DEFAULT '',
		at_ms          BIGINT      NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS room_events_room_seq_idx ON room_events (room_id, seq DESC);
`

const insertEvent = `
	INSERT INTO room_events (id, room_id, kind, participant_id, text, at_ms)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING seq
`

const selectEvents = `
	SELECT seq, id::text, room_id, kind, participant_id, text, at_ms
	FROM room_events
	WHERE room_id = $1
	  AND ($2::bigint IS NULL OR seq < $2)
	ORDER BY seq DESC
	LIMIT $3
`
