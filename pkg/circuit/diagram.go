package circuit

const seriesDiagram = `
        Zs          L + R_L
  +---/\/\/---+---UUUU---+
  |           1          2
 (~) Vin                 |
  |                     === Cc
  |                      |
  +----------------------+ 0
`

const parallelDiagram = `
        Zs
  +---/\/\/---+------+------+
  |           1      |      |
 (~) Vin          L  U      |
  |              R_L U     === Ct
  |                  |      |
  +------------------+------+ 0
`

const probeDiagram = `
        Zs          Cc
  +---/\/\/---+----| |----+------+
  |           1           2      |
 (~) Vin              L  U      |
  |                  R_L U     === Ct
  |                      |      |
  +----------------------+------+ 0
`

const ladderDiagram = `
        Zs        R_op              R_ex
  +---/\/\/---+---/\/\/---+-----+---/\/\/---+-----+
  |           1           2     |           3     |
 (~) Vin                  |     \           |     \
  |                 C_Rb ===    / R_sr C_Xe ===   / R_w
  |                       |     \           |     \
  +-----------------------+-----+-----------+-----+ 0
`
