package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fingraph/fingraph/helper"
	"github.com/fingraph/fingraph/model"
	loadSql "github.com/fingraph/fingraph/sql"
)

// GraphDBHandlerFunctions defines the interface for the graph artifact.
type GraphDBHandlerFunctions interface {
	InsertNode(node *model.GraphNode) error
	InsertEdge(edge *model.GraphEdge) error
	InsertMention(nodeID string, chunkID uuid.UUID) error
	SelectAllNodes() ([]*model.GraphNode, error)
	SelectAllEdges() ([]*model.GraphEdge, error)
	SelectAllMentions() (map[string][]uuid.UUID, error)
	DeleteAll() error
}

// GraphDBHandler handles the persisted knowledge graph artifact: nodes,
// weighted edges and node-to-chunk mentions. The graph-build collaborator
// writes through it; the engine reads it wholesale into a snapshot.
type GraphDBHandler struct {
	db *helper.Database
}

// NewGraphDBHandler creates a new graph database handler.
// If force is true, it reloads the SQL functions even if they already exist.
func NewGraphDBHandler(db *helper.Database, force bool) (*GraphDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	graphDbHandler := &GraphDBHandler{
		db: db,
	}

	err := loadSql.LoadGraphSql(graphDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load graph sql", err)
	}

	err = graphDbHandler.CreateTables()
	if err != nil {
		return nil, helper.NewError("create tables", err)
	}

	db.Logger.Info("Initialized GraphDBHandler")

	return graphDbHandler, nil
}

// CreateTables creates the node, edge and mention tables if they do not
// exist yet.
func (h *GraphDBHandler) CreateTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_graph();`)
	if err != nil {
		return helper.NewError("initialize graph tables", err)
	}

	h.db.Logger.Info("Checked/created graph tables")

	return nil
}

// InsertNode inserts a node, bumping its frequency if it already exists.
func (h *GraphDBHandler) InsertNode(node *model.GraphNode) error {
	_, err := h.db.Instance.Exec(
		`SELECT insert_node($1, $2, $3, $4, $5, $6)`,
		node.ID,
		node.Label,
		node.EntityType,
		pq.Array(node.Aliases),
		node.Importance,
		node.Frequency,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// InsertEdge inserts an edge. Duplicate edges between the same nodes are
// allowed since extraction is probabilistic.
func (h *GraphDBHandler) InsertEdge(edge *model.GraphEdge) error {
	_, err := h.db.Instance.Exec(
		`SELECT insert_edge($1, $2, $3, $4)`,
		edge.SourceID,
		edge.TargetID,
		edge.RelationType,
		edge.Weight,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// InsertMention links a node to a chunk that mentions it.
func (h *GraphDBHandler) InsertMention(nodeID string, chunkID uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT insert_mention($1, $2)`,
		nodeID,
		chunkID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectAllNodes retrieves all graph nodes.
func (h *GraphDBHandler) SelectAllNodes() ([]*model.GraphNode, error) {
	rows, err := h.db.Instance.Query(`SELECT * FROM select_all_nodes()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var nodes []*model.GraphNode
	for rows.Next() {
		node := &model.GraphNode{}
		err := rows.Scan(
			&node.ID,
			&node.Label,
			&node.EntityType,
			pq.Array(&node.Aliases),
			&node.Importance,
			&node.Frequency,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		nodes = append(nodes, node)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("iterate rows", err)
	}

	return nodes, nil
}

// SelectAllEdges retrieves all graph edges.
func (h *GraphDBHandler) SelectAllEdges() ([]*model.GraphEdge, error) {
	rows, err := h.db.Instance.Query(`SELECT * FROM select_all_edges()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var edges []*model.GraphEdge
	for rows.Next() {
		edge := &model.GraphEdge{}
		err := rows.Scan(
			&edge.SourceID,
			&edge.TargetID,
			&edge.RelationType,
			&edge.Weight,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("iterate rows", err)
	}

	return edges, nil
}

// SelectAllMentions retrieves the node-to-chunk mention map.
func (h *GraphDBHandler) SelectAllMentions() (map[string][]uuid.UUID, error) {
	rows, err := h.db.Instance.Query(`SELECT * FROM select_all_mentions()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	mentions := make(map[string][]uuid.UUID)
	for rows.Next() {
		var nodeID string
		var chunkID uuid.UUID
		if err := rows.Scan(&nodeID, &chunkID); err != nil {
			return nil, helper.NewError("scan", err)
		}
		mentions[nodeID] = append(mentions[nodeID], chunkID)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("iterate rows", err)
	}

	return mentions, nil
}

// DeleteAll clears the graph artifact before a corpus rebuild.
func (h *GraphDBHandler) DeleteAll() error {
	_, err := h.db.Instance.Exec(`SELECT delete_all_graph()`)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
