package graphsource

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/abhisek/skillpath/internal/config"
	"github.com/abhisek/skillpath/internal/logger"
	"github.com/abhisek/skillpath/internal/skillgraph"
)

const neo4jTimeout = 10 * time.Second

// Neo4jSource reads skill graphs stored as (:Skill)-[:PREREQUISITE_OF]->(:Skill)
// with a notebook_id property on every node.
type Neo4jSource struct {
	Driver   neo4j.DriverWithContext
	Database string
	log      *logger.Logger
}

// NewNeo4j connects to Neo4j and verifies connectivity.
func NewNeo4j(ctx context.Context, cfg config.Neo4jConfig, log *logger.Logger) (*Neo4jSource, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j: uri required")
	}
	user := cfg.User
	if user == "" {
		user = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(user, cfg.Password, ""), func(c *neo4j.Config) {
		c.SocketConnectTimeout = neo4jTimeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: init driver: %w", err)
	}

	vctx, cancel := context.WithTimeout(ctx, neo4jTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(vctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j: verify connectivity: %w", err)
	}
	return &Neo4jSource{Driver: driver, Database: cfg.Database, log: log.With("client", "Neo4jGraph")}, nil
}

func (n *Neo4jSource) Close(ctx context.Context) error {
	if n == nil || n.Driver == nil {
		return nil
	}
	err := n.Driver.Close(ctx)
	n.Driver = nil
	return err
}

const (
	readSkillsCypher = `
MATCH (s:Skill {notebook_id: $notebook})
RETURN s.id AS id, s.name AS name, s.bloom_level AS bloom_level,
       s.difficulty AS difficulty, s.is_threshold_concept AS is_threshold_concept,
       s.sort_index AS sort_index
ORDER BY sort_index, id`

	readEdgesCypher = `
MATCH (a:Skill {notebook_id: $notebook})-[r:PREREQUISITE_OF]->(b:Skill {notebook_id: $notebook})
RETURN a.id AS from_id, b.id AS to_id, r.strength AS strength
ORDER BY to_id, from_id`
)

func (n *Neo4jSource) Load(ctx context.Context, notebookID string) (*skillgraph.Graph, error) {
	session := n.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: n.Database,
	})
	defer session.Close(ctx)

	params := map[string]any{"notebook": notebookID}
	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, readSkillsCypher, params)
		if err != nil {
			return nil, err
		}
		skillRecs, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		res, err = tx.Run(ctx, readEdgesCypher, params)
		if err != nil {
			return nil, err
		}
		edgeRecs, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		var rows graphRows
		for _, r := range skillRecs {
			rows.skills = append(rows.skills, r.AsMap())
		}
		for _, r := range edgeRecs {
			rows.edges = append(rows.edges, r.AsMap())
		}
		return rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: read graph %s: %w", notebookID, err)
	}

	rows := out.(graphRows)
	skills, edges := rows.decode(notebookID)
	n.log.Debug("neo4j graph loaded", "notebook_id", notebookID, "skills", len(skills), "edges", len(edges))

	g, err := skillgraph.New(skills, edges)
	if err != nil {
		return nil, fmt.Errorf("neo4j: graph %s: %w", notebookID, err)
	}
	return g, nil
}

// Save upserts the notebook's skills and prerequisite edges. Edges that are
// no longer present are removed.
func (n *Neo4jSource) Save(ctx context.Context, notebookID string, skills []skillgraph.SkillNode, edges []skillgraph.Prerequisite) error {
	session := n.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: n.Database,
	})
	defer session.Close(ctx)

	// Best-effort; may fail for restricted users.
	if res, err := session.Run(ctx, `CREATE INDEX skill_notebook_idx IF NOT EXISTS FOR (s:Skill) ON (s.notebook_id, s.id)`, nil); err != nil {
		n.log.Warn("neo4j schema init failed (continuing)", "error", err)
	} else {
		_, _ = res.Consume(ctx)
	}

	nodes, rels := encodeGraph(notebookID, skills, edges)
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		steps := []struct {
			cypher string
			params map[string]any
		}{
			{`
MATCH (:Skill {notebook_id: $notebook})-[r:PREREQUISITE_OF]->(:Skill {notebook_id: $notebook})
DELETE r`, map[string]any{"notebook": notebookID}},
			{`
UNWIND $nodes AS n
MERGE (s:Skill {notebook_id: n.notebook_id, id: n.id})
SET s += n`, map[string]any{"nodes": nodes}},
			{`
UNWIND $rels AS r
MATCH (a:Skill {notebook_id: $notebook, id: r.from_id})
MATCH (b:Skill {notebook_id: $notebook, id: r.to_id})
MERGE (a)-[e:PREREQUISITE_OF]->(b)
SET e.strength = r.strength`, map[string]any{"rels": rels, "notebook": notebookID}},
		}
		for _, s := range steps {
			res, err := tx.Run(ctx, s.cypher, s.params)
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("neo4j: save graph %s: %w", notebookID, err)
	}
	return nil
}
